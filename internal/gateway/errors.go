package gateway

import (
	"errors"
	"fmt"
)

// ErrConfigIncomplete indicates one or more required SMTP credentials are
// absent from the process configuration.
var ErrConfigIncomplete = errors.New("missing required email configuration")

// AttachmentNotFoundError indicates the attachment path does not exist on
// the local filesystem. No network connection is attempted in this case.
type AttachmentNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *AttachmentNotFoundError) Error() string {
	return fmt.Sprintf("attachment file not found: %s", e.Path)
}
