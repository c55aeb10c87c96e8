package sigv4

import (
	"strings"
	"time"
)

const (
	// Algorithm is the only signing algorithm supported here.
	Algorithm = "AWS4-HMAC-SHA256"

	// Terminator closes every credential scope.
	Terminator = "aws4_request"

	// ServiceS3 is the service name used in S3 credential scopes.
	ServiceS3 = "s3"

	// TimestampFormat is the ISO 8601 basic format used in x-amz-date.
	TimestampFormat = "20060102T150405Z"

	// DateFormat is the date-stamp format used in credential scopes.
	DateFormat = "20060102"
)

// FormatTimestamp renders t in UTC as YYYYMMDDTHHMMSSZ.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Scope binds a signing key to a single day, region and service.
type Scope struct {
	Date    string
	Region  string
	Service string
}

// NewScope builds a scope whose date is the date part of timestamp.
// timestamp must be produced by FormatTimestamp.
func NewScope(timestamp, region, service string) Scope {
	return Scope{
		Date:    timestamp[:len(DateFormat)],
		Region:  region,
		Service: service,
	}
}

// String renders <date>/<region>/<service>/aws4_request.
func (s Scope) String() string {
	return strings.Join([]string{s.Date, s.Region, s.Service, Terminator}, "/")
}
