// Package toolrun runs the vendor tools and hands back their standard output
// as a one-shot stream of lines.
//
// Success is decided from text alone: the stream remembers whether any line
// contained toolcmd.SuccessToken. Exit status is surfaced by Wait for
// logging but never overrides the token. Standard error is captured, not
// inspected.
//
// Tests substitute the process with NewStream over any io.Reader, or with a
// RunnerFunc.
package toolrun
