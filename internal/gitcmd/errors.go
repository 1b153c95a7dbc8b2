package gitcmd

import (
	"errors"
	"fmt"
	"strings"
)

// Op identifies which repository operation failed. Each pipeline step fails
// with its own kind so the caller can report and exit distinctly.
type Op string

const (
	OpInit         Op = "init"
	OpRemote       Op = "remote"
	OpLfsInstall   Op = "lfs-install"
	OpFetch        Op = "fetch"
	OpDiff         Op = "diff"
	OpCleanPreview Op = "clean-preview"
	OpReset        Op = "reset"
	OpClean        Op = "clean"
	OpLfsPull      Op = "lfs-pull"
)

// CommandError is a failed git invocation. It carries the operation kind,
// the argument vector, the subprocess exit code and the captured output.
type CommandError struct {
	Op       Op
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed (%s, exit %d)", strings.Join(e.Args, " "), e.Op, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsOp reports whether err is a CommandError of the given operation kind
func IsOp(err error, op Op) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr) && cmdErr.Op == op
}

// OpOf returns the operation kind of err, or "" if it is not a CommandError
func OpOf(err error) Op {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Op
	}
	return ""
}
