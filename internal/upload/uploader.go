package upload

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/s3upload/internal/sigv4"
)

const (
	HeaderAmzDate       = "X-Amz-Date"
	HeaderContentSHA256 = "X-Amz-Content-Sha256"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	contentTypeOctetStream = "application/octet-stream"
)

// Uploader uploads a single local file. On success it returns the report
// message; on failure the error text is the report message.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// HTTPClient is the part of *http.Client used for uploads.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SignedUploader issues SigV4-signed PUTs built by hand.
type SignedUploader struct {
	client    HTTPClient
	bucket    string
	region    string
	timestamp string
	signer    *sigv4.Signer
}

// NewSignedUploader returns an uploader bound to one run: every request uses
// timestamp as x-amz-date and signer for the Authorization header.
func NewSignedUploader(client HTTPClient, bucket, region, timestamp string, signer *sigv4.Signer) *SignedUploader {
	return &SignedUploader{
		client:    client,
		bucket:    bucket,
		region:    region,
		timestamp: timestamp,
		signer:    signer,
	}
}

func (u *SignedUploader) Upload(ctx context.Context, path string) (string, error) {
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
	digest := sigv4.PayloadDigest(payload)

	host := Host(u.bucket, u.region)
	endpoint := "https://" + host + "/" + key

	cr := sigv4.CanonicalRequest{
		Method: http.MethodPut,
		URI:    "/" + key,
		Headers: []sigv4.Header{
			{Name: "host", Value: host},
			{Name: "x-amz-date", Value: u.timestamp},
		},
		PayloadHash: digest,
	}
	_, authorization := u.signer.Authorization(u.timestamp, cr)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set(HeaderAmzDate, u.timestamp)
	req.Header.Set(HeaderContentType, contentTypeOctetStream)
	req.Header.Set(HeaderAuthorization, authorization)
	req.Header.Set(HeaderContentSHA256, digest)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteError{Key: key, StatusCode: resp.StatusCode, Status: statusLine(resp.StatusCode, resp.Status)}
	}

	return successMessage(key), nil
}
