package cfgtext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to a config path to name its pre-rewrite copy.
const BackupSuffix = ".bak"

// Rule describes a single whole-line substitution.
type Rule struct {
	// Token selects the lines to replace (substring match)
	Token string

	// Line is the replacement, without a line terminator
	Line string

	// AppendIfMissing appends Line as a new last line when no line matched
	AppendIfMissing bool
}

// RewriteResult reports what a rewrite changed.
type RewriteResult struct {
	// Matched is true if at least one line contained the token
	Matched bool

	// Replaced is the number of lines replaced
	Replaced int

	// Appended is true if Line was added because nothing matched
	Appended bool

	// BackupPath is where the original content was saved (empty for RewriteReader)
	BackupPath string
}

// Rewrite replaces every line of the file at path that contains rule.Token
// with rule.Line. Every other line, including its terminator, is written back
// unchanged. The original content is saved to path+BackupSuffix before the
// file is replaced.
//
// Example:
//
//	line := cfgtext.EncodeQuotedString(cfgtext.KeyDeviceName, "NEWNAME")
//	res, err := cfgtext.Rewrite("config/dev_cfg", cfgtext.Rule{
//	    Token: cfgtext.KeyDeviceName.Token(),
//	    Line:  line,
//	})
func Rewrite(path string, rule Rule) (*RewriteResult, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, original, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	res, err := RewriteReader(bytes.NewReader(original), tmp, rule)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("replace config: %w", err)
	}

	res.BackupPath = backupPath
	return res, nil
}

// RewriteReader streams r to w line by line, applying rule.
// No backup is made; Rewrite handles that for files.
func RewriteReader(r io.Reader, w io.Writer, rule Rule) (*RewriteResult, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	res := &RewriteResult{}

	// An empty input counts as terminated so an appended line is not
	// preceded by a blank one.
	terminated := true
	for {
		line, readErr := br.ReadString('\n')
		if len(line) > 0 {
			body, term := splitTerminator(line)
			if strings.Contains(body, rule.Token) {
				line = rule.Line + term
				res.Replaced++
			}
			if _, err := bw.WriteString(line); err != nil {
				return nil, fmt.Errorf("write line: %w", err)
			}
			terminated = term != ""
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read line: %w", readErr)
		}
	}

	res.Matched = res.Replaced > 0
	if !res.Matched && rule.AppendIfMissing {
		if !terminated {
			if err := bw.WriteByte('\n'); err != nil {
				return nil, fmt.Errorf("write line: %w", err)
			}
		}
		if _, err := bw.WriteString(rule.Line + "\n"); err != nil {
			return nil, fmt.Errorf("write line: %w", err)
		}
		res.Appended = true
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return res, nil
}

// Restore copies path+BackupSuffix back over path.
func Restore(path string) error {
	backupPath := path + BackupSuffix
	info, err := os.Stat(backupPath)
	if err != nil {
		return fmt.Errorf("stat backup: %w", err)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("restore config: %w", err)
	}
	return nil
}

func (r Rule) validate() error {
	if r.Token == "" {
		return fmt.Errorf("rewrite rule has an empty token")
	}
	if strings.ContainsAny(r.Line, "\r\n") {
		return fmt.Errorf("replacement line must not contain a line terminator")
	}
	return nil
}

// splitTerminator separates a line read with ReadString('\n') from its
// "\n" or "\r\n" terminator.
func splitTerminator(line string) (body, term string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
