package cfgtext

import "fmt"

// ParseError reports a recognised config line whose quote or bracket
// structure could not be decoded.
type ParseError struct {
	// Key is the field being decoded, empty when decoding a bare line
	Key Key

	// LineNum is the 1-based line number, zero when unknown
	LineNum int

	// Text is the offending line without its terminator
	Text string

	// Reason describes what was malformed
	Reason string

	// Err is the underlying decode error, if any
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, msg)
	}
	if e.LineNum > 0 {
		msg = fmt.Sprintf("line %d: %s", e.LineNum, msg)
	}
	return fmt.Sprintf("malformed config line (%s): %q", msg, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
