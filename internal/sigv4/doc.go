// Package sigv4 implements the parts of AWS Signature Version 4 needed to sign
// a single-object S3 PUT with header-based authentication.
//
// Signing happens in three steps:
//
//  1. DeriveSigningKey turns the account secret and a credential Scope into a
//     short-lived SigningKey (four chained HMAC-SHA256 operations).
//  2. CanonicalRequest renders the method, URI, signed headers and payload
//     digest into the exact string the signature commits to.
//  3. Signer hashes the canonical request into the string-to-sign, HMACs it
//     with the signing key and assembles the Authorization header value.
//
// Typical use:
//
//	ts := sigv4.FormatTimestamp(time.Now())
//	scope := sigv4.NewScope(ts, "eu-west-1", sigv4.ServiceS3)
//	key := sigv4.DeriveSigningKey(secret, scope.Date, scope.Region, scope.Service)
//	defer key.Wipe()
//
//	signer := sigv4.NewSigner(accessKey, scope, key)
//	cr := sigv4.CanonicalRequest{
//	    Method:      http.MethodPut,
//	    URI:         "/" + objectKey,
//	    Headers:     []sigv4.Header{{Name: "host", Value: host}, {Name: "x-amz-date", Value: ts}},
//	    PayloadHash: sigv4.PayloadDigest(body),
//	}
//	_, authorization := signer.Authorization(ts, cr)
package sigv4
