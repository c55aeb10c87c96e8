package upload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const runTimestamp = "20240101T000000Z"

type capturedRequest struct {
	req  *http.Request
	body []byte
}

// stubTransport records requests and answers with a status picked per request.
type stubTransport struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   func(req *http.Request) int
	err      error
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	s.mu.Lock()
	s.requests = append(s.requests, capturedRequest{req: req, body: body})
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	code := http.StatusOK
	if s.status != nil {
		code = s.status(req)
	}
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func (s *stubTransport) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func staticCreds() credentials.StaticCredentialsProvider {
	return credentials.NewStaticCredentialsProvider("abc", "xyz", "")
}
