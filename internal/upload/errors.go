package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// Error texts below are part of the run report and keep their exact wording.
var (
	// ErrInvalidFileName is returned when a path has no file name component.
	ErrInvalidFileName = errors.New("Invalid file name")

	// ErrUnknownBackend is returned by NewDriver for an unsupported Backend.
	ErrUnknownBackend = errors.New("unknown upload backend")

	// ErrNoCredentials is returned by NewDriver when no credentials provider is set.
	ErrNoCredentials = errors.New("credentials provider required")
	// ErrNotDirectory is reported when the upload root is not a directory.
	ErrNotDirectory = errors.New("upload root is not a directory")
)

// RemoteError reports a non-2xx answer from the object store.
type RemoteError struct {
	Key        string
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("Failed to upload file: %s. Status: %s", e.Key, e.Status)
}

// statusLine returns status, or "<code> <text>" when the transport left it empty.
func statusLine(code int, status string) string {
	if status != "" {
		return status
	}
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
