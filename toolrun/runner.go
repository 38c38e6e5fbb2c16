package toolrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Runner starts an external command and returns its output stream.
type Runner interface {
	Run(ctx context.Context, args []string) (*Stream, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, args []string) (*Stream, error)

// Run calls f(ctx, args).
func (f RunnerFunc) Run(ctx context.Context, args []string) (*Stream, error) {
	return f(ctx, args)
}

// Exec runs commands as child processes.
//
// The process is started once and never killed by Exec: the caller drains
// the stream, which implicitly waits for the process to finish. ctx is only
// checked before starting.
type Exec struct {
	// Dir is the working directory, empty for the current one
	Dir string

	// Env is the environment, nil to inherit
	Env []string
}

// Run starts args[0] with args[1:].
//
// Example:
//
//	s, err := (&toolrun.Exec{}).Run(ctx, []string{"ConfigCmd", "dev2txt", "dev_cfg"})
//	if err != nil {
//	    return err
//	}
//	ok, _ := toolrun.Drain(s, func(line string) { fmt.Println(line) })
func (e *Exec) Run(ctx context.Context, args []string) (*Stream, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = e.Env

	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", args[0], err)
	}

	return NewStream(stdout, cmd.Wait, stderr.String), nil
}

// lockedBuffer lets Stderr be read while exec's copy goroutine may still
// be writing.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
