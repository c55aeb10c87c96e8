package upload

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the subset of *s3.Client used by SDKUploader.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SDKUploader uploads through the aws-sdk-go-v2 S3 client. Naming, the
// ignore rule and report messages match SignedUploader; the SDK signs the
// request itself.
type SDKUploader struct {
	client    putObjectAPI
	bucket    string
	timestamp string
}

// NewSDKUploader builds an S3 client from cfg. Retries are disabled and
// request checksums are only sent when an operation requires them.
func NewSDKUploader(cfg aws.Config, bucket, timestamp string, optFns ...func(*s3.Options)) *SDKUploader {
	opts := append([]func(*s3.Options){
		func(o *s3.Options) {
			o.Retryer = aws.NopRetryer{}
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		},
	}, optFns...)

	return &SDKUploader{
		client:    s3.NewFromConfig(cfg, opts...),
		bucket:    bucket,
		timestamp: timestamp,
	}
}

func (u *SDKUploader) Upload(ctx context.Context, path string) (string, error) {
	name, err := LeafName(path)
	if err != nil {
		return "", err
	}
	if name == IgnoredFileName {
		return ignoredMessage, nil
	}

	key := ObjectKey(u.timestamp, name)

	payload, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	// The SDK escapes the key itself, so it gets the decoded form; the stored
	// object name is the same as with SignedUploader.
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(u.timestamp + "-" + name),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentTypeOctetStream),
	})
	if err != nil {
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			code := re.HTTPStatusCode()
			return "", &RemoteError{Key: key, StatusCode: code, Status: statusLine(code, "")}
		}
		return "", err
	}

	return successMessage(key), nil
}
