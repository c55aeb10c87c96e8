package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/s3upload/internal/logging"
	"github.com/dmitrijs2005/s3upload/internal/sigv4"
)

const (
	BackendSigV4 = "sigv4"
	BackendSDK   = "sdk"
)

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// Options configures a Driver.
type Options struct {
	Bucket      string
	Region      string
	Credentials aws.CredentialsProvider

	// Backend is BackendSigV4 (default) or BackendSDK.
	Backend string

	// HTTPClient is shared by every upload of a run. Defaults to a new
	// *http.Client.
	HTTPClient HTTPClient

	// S3Options are applied to the SDK client when Backend is BackendSDK.
	S3Options []func(*s3.Options)

	// Now returns the run timestamp. Defaults to time.Now.
	Now func() time.Time

	Logger logging.Logger
}

// Driver uploads directory trees. One Driver may run several times; each
// UploadDirectory call is a separate run with its own timestamp and key.
type Driver struct {
	opts Options
}

func NewDriver(opts Options) (*Driver, error) {
	switch opts.Backend {
	case "":
		opts.Backend = BackendSigV4
	case BackendSigV4, BackendSDK:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if opts.Credentials == nil {
		return nil, ErrNoCredentials
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	}
	return &Driver{opts: opts}, nil
}

// UploadDirectory uploads every regular file below root and returns one
// Outcome per file in walk order.
//
// root itself may be a symlink to a directory; the tree is walked through it
// and outcome paths stay under root as given. A root that is missing or not a
// directory yields no outcomes and a warning.
//
// Below root, symlinks are not descended into. A symlink that resolves to a
// regular file is uploaded under the link's own name; broken links are
// skipped. Entries that cannot be read are skipped with a warning.
//
// The returned error is non-nil only when credentials cannot be resolved,
// the backend cannot be set up, or ctx is cancelled; outcomes collected so
// far are returned with it.
func (d *Driver) UploadDirectory(ctx context.Context, root string) ([]Outcome, error) {
	creds, err := d.opts.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve credentials: %w", err)
	}

	timestamp := sigv4.FormatTimestamp(d.opts.Now())
	logger := d.opts.Logger.With("bucket", d.opts.Bucket, "region", d.opts.Region, "timestamp", timestamp)

	uploader, release, err := d.newUploader(ctx, creds, timestamp)
	if err != nil {
		return nil, err
	}
	defer release()

	outcomes := make([]Outcome, 0)

	walkRoot, err := resolveRoot(root)
	if err != nil {
		logger.Warn(ctx, "skipping upload root", "path", root, "error", err)
		return outcomes, nil
	}

	walkErr := filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		path = underRoot(root, walkRoot, path)
		if err != nil {
			logger.Warn(ctx, "skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if !isUploadable(path, entry) {
			return nil
		}

		message, err := uploader.Upload(ctx, path)
		outcome := newOutcome(path, message, err)
		outcomes = append(outcomes, outcome)

		if outcome.Failed() {
			logger.Warn(ctx, "upload failed", "path", path, "error", outcome.Message)
		} else {
			logger.Info(ctx, outcome.Message, "path", path)
		}
		return nil
	})
	if walkErr != nil {
		return outcomes, walkErr
	}

	return outcomes, nil
}

// newUploader builds the per-run uploader. release wipes the signing key.
func (d *Driver) newUploader(ctx context.Context, creds aws.Credentials, timestamp string) (Uploader, func(), error) {
	switch d.opts.Backend {
	case BackendSDK:
		cfg, err := loadDefaultAWSConfig(ctx,
			awsconfig.WithRegion(d.opts.Region),
			awsconfig.WithCredentialsProvider(d.opts.Credentials),
			awsconfig.WithHTTPClient(d.opts.HTTPClient),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		return NewSDKUploader(cfg, d.opts.Bucket, timestamp, d.opts.S3Options...), func() {}, nil

	default:
		scope := sigv4.NewScope(timestamp, d.opts.Region, sigv4.ServiceS3)
		key := sigv4.DeriveSigningKey(creds.SecretAccessKey, scope.Date, scope.Region, scope.Service)
		signer := sigv4.NewSigner(creds.AccessKeyID, scope, key)
		return NewSignedUploader(d.opts.HTTPClient, d.opts.Bucket, d.opts.Region, timestamp, signer), key.Wipe, nil
	}
}

// resolveRoot follows symlinks in root and checks that it names a directory.
func resolveRoot(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return resolved, nil
}

// underRoot rewrites a path found below walkRoot so that it starts with root.
func underRoot(root, walkRoot, path string) string {
	if root == walkRoot {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

func isUploadable(path string, entry fs.DirEntry) bool {
	mode := entry.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
