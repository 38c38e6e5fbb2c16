package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/moffa90/go-qccprov/provision"
)

// StatusLabelWidth is the column the state is aligned to.
const StatusLabelWidth = 50

// BannerWidth is the total width of a banner line.
const BannerWidth = 60

// cursorUpClear moves to the start of the previous line and clears it.
const cursorUpClear = "\033[F\033[K"

// Terminal renders status lines, banners and messages for the operator.
//
// A final state replaces its Processing line in place when the output is a
// terminal and nothing else was written in between. Otherwise it is printed
// on a new line. Terminal implements io.Writer so tool output and prompts
// routed through it keep that bookkeeping right.
type Terminal struct {
	out io.Writer
	tty bool

	// pending is the label of the Processing line last printed, or empty
	// once anything else has been written
	pending string

	processing lipgloss.Style
	success    lipgloss.Style
	failed     lipgloss.Style
	banner     lipgloss.Style
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithTTY overrides terminal detection.
func WithTTY(tty bool) Option {
	return func(t *Terminal) {
		t.tty = tty
	}
}

// NewTerminal creates a Terminal writing to out. Colours follow what out
// supports.
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	r := lipgloss.NewRenderer(out)
	t := &Terminal{
		out:        out,
		tty:        isTerminal(out),
		processing: r.NewStyle().Foreground(lipgloss.Color("3")),
		success:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failed:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		banner:     r.NewStyle().Foreground(lipgloss.Color("6")),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Write passes p through to the underlying writer.
func (t *Terminal) Write(p []byte) (int, error) {
	if len(p) > 0 {
		t.pending = ""
	}
	return t.out.Write(p)
}

// Status prints a status line. It has the provision.StatusCallback shape.
func (t *Terminal) Status(s provision.Status) {
	if s.State != provision.StateProcessing && t.tty && t.pending == s.Label {
		io.WriteString(t.out, cursorUpClear)
	}
	fmt.Fprintf(t.out, "%-*s: %s\n", StatusLabelWidth, s.Label, t.renderState(s.State))

	t.pending = ""
	if s.State == provision.StateProcessing {
		t.pending = s.Label
	}
}

func (t *Terminal) renderState(s provision.State) string {
	switch s {
	case provision.StateProcessing:
		return t.processing.Render(s.String())
	case provision.StateSuccess:
		return t.success.Render(s.String())
	case provision.StateFailed:
		return t.failed.Render(s.String())
	}
	return s.String()
}

// Banner prints title centred in a line of '='.
func (t *Terminal) Banner(title string) {
	fmt.Fprintln(t, t.banner.Render(FormatBanner(title)))
}

// Println prints a message line.
func (t *Terminal) Println(a ...interface{}) {
	fmt.Fprintln(t, a...)
}

// Printf prints a formatted message.
func (t *Terminal) Printf(format string, a ...interface{}) {
	fmt.Fprintf(t, format, a...)
}

// FormatBanner pads title with '=' to BannerWidth. An odd remainder puts
// the extra '=' on the right.
func FormatBanner(title string) string {
	pad := max(BannerWidth-utf8.RuneCountInString(title), 0)
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}
