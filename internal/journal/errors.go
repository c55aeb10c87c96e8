package journal

import "errors"

var (
	ErrNoPath      = errors.New("journal path is empty")
	ErrRunNotFound = errors.New("run not found")
)
