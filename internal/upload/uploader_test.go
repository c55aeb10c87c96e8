package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/s3upload/internal/sigv4"
)

func newTestSignedUploader(transport *stubTransport) *SignedUploader {
	scope := sigv4.NewScope(runTimestamp, "eu-west-1", sigv4.ServiceS3)
	key := sigv4.DeriveSigningKey("xyz", scope.Date, scope.Region, scope.Service)
	signer := sigv4.NewSigner("abc", scope, key)
	return NewSignedUploader(&http.Client{Transport: transport}, "bucket-name", "eu-west-1", runTimestamp, signer)
}

func TestSignedUploader_Success(t *testing.T) {
	transport := &stubTransport{}
	u := newTestSignedUploader(transport)

	content := []byte("hello, s3")
	path := writeFile(t, filepath.Join(t.TempDir(), "my file (1).txt"), content)

	msg, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "File uploaded successfully: 20240101T000000Z-my%20file%20%281%29.txt", msg)

	require.Equal(t, 1, transport.count())
	got := transport.requests[0]

	assert.Equal(t, http.MethodPut, got.req.Method)
	assert.Equal(t, "https://bucket-name.s3.eu-west-1.amazonaws.com/20240101T000000Z-my%20file%20%281%29.txt", got.req.URL.String())
	assert.Equal(t, "/20240101T000000Z-my%20file%20%281%29.txt", got.req.URL.EscapedPath())
	assert.Equal(t, content, got.body)

	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])
	assert.Equal(t, digest, got.req.Header.Get("x-amz-content-sha256"))
	assert.Equal(t, runTimestamp, got.req.Header.Get("x-amz-date"))
	assert.Equal(t, "application/octet-stream", got.req.Header.Get("Content-Type"))

	// recompute the signature over what was actually sent
	scope := sigv4.NewScope(runTimestamp, "eu-west-1", sigv4.ServiceS3)
	signer := sigv4.NewSigner("abc", scope, sigv4.DeriveSigningKey("xyz", scope.Date, scope.Region, scope.Service))
	_, want := signer.Authorization(runTimestamp, sigv4.CanonicalRequest{
		Method: got.req.Method,
		URI:    got.req.URL.EscapedPath(),
		Headers: []sigv4.Header{
			{Name: "host", Value: got.req.URL.Host},
			{Name: "x-amz-date", Value: got.req.Header.Get("x-amz-date")},
		},
		PayloadHash: got.req.Header.Get("x-amz-content-sha256"),
	})
	assert.Equal(t, want, got.req.Header.Get("Authorization"))
	assert.True(t, strings.HasPrefix(want, "AWS4-HMAC-SHA256 Credential=abc/20240101/eu-west-1/s3/aws4_request, SignedHeaders=host;x-amz-date, Signature="))
}

func TestSignedUploader_EmptyFile(t *testing.T) {
	transport := &stubTransport{}
	u := newTestSignedUploader(transport)

	path := writeFile(t, filepath.Join(t.TempDir(), "empty"), nil)

	_, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, transport.count())
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		transport.requests[0].req.Header.Get("x-amz-content-sha256"))
	assert.Empty(t, transport.requests[0].body)
}

func TestSignedUploader_IgnoresDSStore(t *testing.T) {
	transport := &stubTransport{}
	u := newTestSignedUploader(transport)

	// the file does not even need to exist
	msg, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), ".DS_Store"))
	require.NoError(t, err)
	assert.Equal(t, "File ignored: .DS_Store", msg)
	assert.Equal(t, 0, transport.count())
}

func TestSignedUploader_RemoteRejection(t *testing.T) {
	transport := &stubTransport{status: func(*http.Request) int { return http.StatusForbidden }}
	u := newTestSignedUploader(transport)

	path := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), []byte("x"))

	_, err := u.Upload(context.Background(), path)
	require.Error(t, err)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusForbidden, re.StatusCode)
	assert.Equal(t, "20240101T000000Z-a.txt", re.Key)
	assert.Equal(t, "Failed to upload file: 20240101T000000Z-a.txt. Status: 403 Forbidden", err.Error())
}

func TestSignedUploader_AcceptsAny2xx(t *testing.T) {
	transport := &stubTransport{status: func(*http.Request) int { return http.StatusNoContent }}
	u := newTestSignedUploader(transport)

	path := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), []byte("x"))

	msg, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "File uploaded successfully: 20240101T000000Z-a.txt", msg)
}

func TestSignedUploader_ReadError(t *testing.T) {
	transport := &stubTransport{}
	u := newTestSignedUploader(transport)

	_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
	assert.NotContains(t, err.Error(), FailedMarker)
	assert.Equal(t, 0, transport.count())
}

func TestSignedUploader_TransportError(t *testing.T) {
	transport := &stubTransport{err: errors.New("connection reset by peer")}
	u := newTestSignedUploader(transport)

	path := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), []byte("x"))

	_, err := u.Upload(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Equal(t, 1, transport.count())
}

func TestSignedUploader_InvalidName(t *testing.T) {
	transport := &stubTransport{}
	u := newTestSignedUploader(transport)

	_, err := u.Upload(context.Background(), "..")
	require.ErrorIs(t, err, ErrInvalidFileName)
	assert.Equal(t, 0, transport.count())
}
