package upload

import "strings"

const (
	// IgnoredFileName is skipped without any I/O.
	IgnoredFileName = ".DS_Store"

	// FailedMarker marks failure messages in the run report.
	FailedMarker = "Failed"

	ignoredMessage = "File ignored: " + IgnoredFileName
)

func successMessage(key string) string {
	return "File uploaded successfully: " + key
}

// Outcome is the result of one file. Message is either a success line, the
// ignored line, or the failure reason; Err is set only for failures.
type Outcome struct {
	Path    string
	Message string
	Err     error
}

func newOutcome(path, message string, err error) Outcome {
	if err != nil {
		return Outcome{Path: path, Message: err.Error(), Err: err}
	}
	return Outcome{Path: path, Message: message}
}

// Failed reports whether the upload returned an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// CountSuccessful counts outcomes whose message does not contain "Failed".
// Ignored files and local errors without that word are counted as well.
func CountSuccessful(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !strings.Contains(o.Message, FailedMarker) {
			n++
		}
	}
	return n
}
