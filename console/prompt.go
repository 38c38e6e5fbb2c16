package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Validator checks one line of input and returns its normalised form.
type Validator func(string) (string, error)

// Prompter asks the operator for input until it validates.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading lines from in and writing prompts
// to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints prompt and reads a line, repeating until validate accepts it.
// There is no retry limit. It returns io.EOF once input is closed.
//
// Example:
//
//	name, err := p.Ask("Choose device name (1-60 letters): ", provision.NormalizeDeviceName)
func (p *Prompter) Ask(prompt string, validate Validator) (string, error) {
	return p.AskWithHint(prompt, "", validate)
}

// AskWithHint is Ask, printing hint after every rejected answer.
func (p *Prompter) AskWithHint(prompt, hint string, validate Validator) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if validate == nil {
			return line, nil
		}
		v, verr := validate(line)
		if verr == nil {
			return v, nil
		}
		if hint != "" {
			fmt.Fprintln(p.out, hint)
		}
	}
}

// WaitEnter prints prompt and blocks until a line is entered or input ends.
func (p *Prompter) WaitEnter(prompt string) error {
	fmt.Fprint(p.out, prompt)
	_, err := p.readLine()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// readLine returns one line without its terminator. A final unterminated
// line is returned as a line; io.EOF follows on the next call.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
