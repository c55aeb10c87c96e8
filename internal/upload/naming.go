package upload

import (
	"path/filepath"

	"github.com/dmitrijs2005/s3upload/internal/sigv4"
)

// LeafName returns the last element of path. Paths without a usable file name
// ("", ".", "..", a bare separator) yield ErrInvalidFileName.
func LeafName(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidFileName
	}
	name := filepath.Base(filepath.Clean(path))
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", ErrInvalidFileName
	}
	return name, nil
}

// ObjectKey builds <timestamp>-<percent-encoded name>.
func ObjectKey(timestamp, name string) string {
	return timestamp + "-" + sigv4.EncodePathSegment(name)
}

// Host returns the virtual-hosted-style S3 host for bucket in region.
func Host(bucket, region string) string {
	return bucket + ".s3." + region + ".amazonaws.com"
}
