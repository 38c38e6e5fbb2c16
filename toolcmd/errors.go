package toolcmd

import (
	"fmt"
	"strings"
)

// ToolError reports a tool run whose output never contained SuccessToken.
type ToolError struct {
	// Operation is the step that failed, e.g. "pull dev_cfg"
	Operation string

	// Args is the argument vector that was run
	Args []string

	// Err is the start or exit error, if one was observed
	Err error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: no %q in tool output", e.Operation, SuccessToken)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" (%s)", strings.Join(e.Args, " "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// IsToolError returns true if the error is a ToolError.
func IsToolError(err error) bool {
	_, ok := err.(*ToolError)
	return ok
}
