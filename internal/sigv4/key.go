package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// SigningKey is the 32-byte key derived from the account secret and a
// credential scope. It must not be logged; String, GoString and LogValue
// redact it.
type SigningKey []byte

// DeriveSigningKey derives the SigV4 signing key:
//
//	kDate    = HMAC("AWS4" + secret, date)
//	kRegion  = HMAC(kDate, region)
//	kService = HMAC(kRegion, service)
//	kSigning = HMAC(kService, "aws4_request")
//
// date must be in YYYYMMDD form.
func DeriveSigningKey(secret, date, region, service string) SigningKey {
	seed := []byte("AWS4" + secret)
	kDate := hmacSHA256(seed, date)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	kSigning := hmacSHA256(kService, Terminator)

	wipe(seed)
	wipe(kDate)
	wipe(kRegion)
	wipe(kService)

	return SigningKey(kSigning)
}

// Wipe overwrites the key with zeros. The key is unusable afterwards.
func (k SigningKey) Wipe() {
	wipe(k)
}

func (k SigningKey) String() string {
	return "[REDACTED]"
}

func (k SigningKey) GoString() string {
	return "sigv4.SigningKey([REDACTED])"
}

func (k SigningKey) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hmacSHA256Hex(key []byte, data string) string {
	return hex.EncodeToString(hmacSHA256(key, data))
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
