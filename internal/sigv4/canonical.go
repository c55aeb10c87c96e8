package sigv4

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// EmptyPayloadDigest is the hex SHA-256 of an empty body.
const EmptyPayloadDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Header is a single signed header. Name is lowercased when rendered; Value
// is used as is.
type Header struct {
	Name  string
	Value string
}

// CanonicalRequest holds the parts of a request that the signature commits to.
type CanonicalRequest struct {
	Method      string
	URI         string
	Query       string
	Headers     []Header
	PayloadHash string
}

// String renders the canonical request:
//
//	<METHOD>\n<URI>\n<QUERY>\n<HEADERS>\n<SIGNED_HEADERS>\n<PAYLOAD_HASH>
//
// where <HEADERS> is one "name:value\n" line per header sorted by name.
func (c CanonicalRequest) String() string {
	headers := c.sortedHeaders()

	var canonicalHeaders strings.Builder
	for _, h := range headers {
		canonicalHeaders.WriteString(h.Name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(h.Value)
		canonicalHeaders.WriteByte('\n')
	}

	return strings.Join([]string{
		strings.ToUpper(c.Method),
		c.URI,
		c.Query,
		canonicalHeaders.String(),
		joinNames(headers),
		c.PayloadHash,
	}, "\n")
}

// SignedHeaders returns the semicolon-joined, sorted, lowercase header names.
func (c CanonicalRequest) SignedHeaders() string {
	return joinNames(c.sortedHeaders())
}

// Hash returns the lowercase hex SHA-256 of String().
func (c CanonicalRequest) Hash() string {
	sum := sha256.Sum256([]byte(c.String()))
	return hex.EncodeToString(sum[:])
}

func (c CanonicalRequest) sortedHeaders() []Header {
	headers := make([]Header, len(c.Headers))
	for i, h := range c.Headers {
		headers[i] = Header{Name: strings.ToLower(h.Name), Value: h.Value}
	}
	sort.SliceStable(headers, func(i, j int) bool {
		return headers[i].Name < headers[j].Name
	})
	return headers
}

func joinNames(headers []Header) string {
	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}
	return strings.Join(names, ";")
}

// PayloadDigest returns the lowercase hex SHA-256 of payload.
func PayloadDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

const upperHex = "0123456789ABCDEF"

// EncodePathSegment percent-encodes every byte of s outside the unreserved
// set A-Z a-z 0-9 - . _ ~ using uppercase hex. Slashes are encoded too, so the
// result is safe as a single path segment.
func EncodePathSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
