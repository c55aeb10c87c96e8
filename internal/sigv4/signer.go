package sigv4

import (
	"strings"
)

// Signer signs canonical requests for one access key and scope.
// It holds the signing key by reference; wiping the key invalidates the signer.
type Signer struct {
	accessKey string
	scope     Scope
	key       SigningKey
}

func NewSigner(accessKey string, scope Scope, key SigningKey) *Signer {
	return &Signer{accessKey: accessKey, scope: scope, key: key}
}

// Scope returns the credential scope the signer was built for.
func (s *Signer) Scope() Scope {
	return s.scope
}

// StringToSign renders:
//
//	AWS4-HMAC-SHA256\n<timestamp>\n<scope>\n<hex sha256 of canonical request>
func (s *Signer) StringToSign(timestamp string, cr CanonicalRequest) string {
	return strings.Join([]string{
		Algorithm,
		timestamp,
		s.scope.String(),
		cr.Hash(),
	}, "\n")
}

// Sign returns the lowercase hex signature of cr at timestamp.
func (s *Signer) Sign(timestamp string, cr CanonicalRequest) string {
	return hmacSHA256Hex(s.key, s.StringToSign(timestamp, cr))
}

// Authorization returns the signature together with the full Authorization
// header value:
//
//	AWS4-HMAC-SHA256 Credential=<access>/<scope>, SignedHeaders=<names>, Signature=<hex>
func (s *Signer) Authorization(timestamp string, cr CanonicalRequest) (signature, header string) {
	signature = s.Sign(timestamp, cr)

	var b strings.Builder
	b.WriteString(Algorithm)
	b.WriteString(" Credential=")
	b.WriteString(s.accessKey)
	b.WriteByte('/')
	b.WriteString(s.scope.String())
	b.WriteString(", SignedHeaders=")
	b.WriteString(cr.SignedHeaders())
	b.WriteString(", Signature=")
	b.WriteString(signature)

	return signature, b.String()
}
