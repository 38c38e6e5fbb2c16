package toolcmd

import "strings"

// IsSuccess reports whether a line of tool output carries the success token.
// Neither tool has machine-readable output, so this is a heuristic: the
// token anywhere in the line counts.
func IsSuccess(line string) bool {
	return strings.Contains(line, SuccessToken)
}
