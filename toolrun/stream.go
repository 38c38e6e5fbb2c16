package toolrun

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/moffa90/go-qccprov/toolcmd"
)

// Stream is the standard output of one tool run, consumed line by line.
//
// A Stream can be ranged over once. Lines are yielded as the process writes
// them, so a consumer can echo progress while the tool is still running.
// Stream is not safe for concurrent use.
type Stream struct {
	r      io.Reader
	wait   func() error
	stderr func() string

	consumed bool
	success  bool
	readErr  error

	waited  bool
	waitErr error
}

// NewStream wraps r as a Stream. wait, if non-nil, is called once by Wait
// after the output has been drained; stderr, if non-nil, supplies the
// captured standard error.
//
// Example:
//
//	s := toolrun.NewStream(strings.NewReader("Working...\nSuccess\n"), nil, nil)
//	for line := range s.Lines() {
//	    fmt.Println(line)
//	}
//	fmt.Println(s.Success()) // true
func NewStream(r io.Reader, wait func() error, stderr func() string) *Stream {
	return &Stream{r: r, wait: wait, stderr: stderr}
}

// Lines returns the output as a lazy sequence of lines without terminators.
// The sequence is one-shot: ranging over it a second time yields nothing.
// If the consumer stops early, the rest of the output is still read and
// discarded so the process can exit and the success flag stays accurate.
func (s *Stream) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s.consumed {
			return
		}
		s.consumed = true

		br := bufio.NewReader(s.r)
		emit := true
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				line = strings.TrimRight(line, "\r\n")
				if toolcmd.IsSuccess(line) {
					s.success = true
				}
				if emit && !yield(line) {
					emit = false
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				s.readErr = err
				return
			}
		}
	}
}

// Success reports whether any drained line contained the success token.
// Once true it never resets.
func (s *Stream) Success() bool {
	return s.success
}

// Err returns the error that stopped reading, if any. End of stream is not
// an error.
func (s *Stream) Err() error {
	return s.readErr
}

// Wait drains any unread output and reaps the process. The returned error
// is informational; exit status never decides success.
func (s *Stream) Wait() error {
	if s.waited {
		return s.waitErr
	}
	for range s.Lines() {
	}
	s.waited = true
	if s.wait != nil {
		s.waitErr = s.wait()
	}
	return s.waitErr
}

// Stderr returns captured standard error. It is complete only after Wait.
func (s *Stream) Stderr() string {
	if s.stderr == nil {
		return ""
	}
	return s.stderr()
}

// Drain ranges over every line, passing each to fn (which may be nil), then
// waits for the process. It returns the success flag and the first read or
// wait error.
func Drain(s *Stream, fn func(line string)) (bool, error) {
	for line := range s.Lines() {
		if fn != nil {
			fn(line)
		}
	}
	waitErr := s.Wait()
	if s.Err() != nil {
		return s.Success(), s.Err()
	}
	return s.Success(), waitErr
}
