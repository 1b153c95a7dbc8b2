package gitcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Client provides the git and git-lfs operations needed to mirror the
// distribution repository into a profile directory.
type Client interface {
	// IsRepo reports whether repository metadata exists in the work dir
	IsRepo() bool
	// Init initializes a repository with the given default branch
	Init(ctx context.Context, branch string) error
	// EnsureRemote adds the named remote or overwrites its URL if present
	EnsureRemote(ctx context.Context, name, url string) error
	// LfsInstall activates the large-file extension for this repository
	LfsInstall(ctx context.Context) error
	// Fetch updates the remote tracking state without touching the work tree
	Fetch(ctx context.Context, remote, branch string) error
	// DiffRemote lists tracked changes between HEAD and the fetched remote tip
	DiffRemote(ctx context.Context, remote, branch string) ([]Change, error)
	// CleanPreview lists untracked paths a forced recursive clean would remove
	CleanPreview(ctx context.Context) ([]string, error)
	// Reset hard-resets the work tree and index to the fetched remote tip
	Reset(ctx context.Context, remote, branch string) error
	// Clean force-removes untracked files and directories
	Clean(ctx context.Context) error
	// LfsPull downloads large-file content for tracked pointer files
	LfsPull(ctx context.Context) error
}

// ShellClient implements Client by shelling out to git in a fixed work dir
type ShellClient struct {
	workDir string
	timeout time.Duration
}

// NewShellClient creates a git client rooted at workDir. A zero timeout
// leaves every command unbounded.
func NewShellClient(workDir string, timeout time.Duration) *ShellClient {
	return &ShellClient{workDir: workDir, timeout: timeout}
}

// IsRepo reports whether a .git directory exists directly inside the work dir
func (c *ShellClient) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.workDir, ".git"))
	return err == nil && info.IsDir()
}

// Init initializes the repository with the given default branch name
func (c *ShellClient) Init(ctx context.Context, branch string) error {
	_, err := c.run(ctx, OpInit, "init", "-b", branch)
	return err
}

// EnsureRemote points the named remote at url, adding it if absent and
// overwriting its URL unconditionally if present. Re-running it is safe and
// self-heals URL drift.
func (c *ShellClient) EnsureRemote(ctx context.Context, name, url string) error {
	out, err := c.run(ctx, OpRemote, "remote")
	if err != nil {
		return err
	}
	if strings.Contains(out, name) {
		_, err = c.run(ctx, OpRemote, "remote", "set-url", name, url)
		return err
	}
	_, err = c.run(ctx, OpRemote, "remote", "add", name, url)
	return err
}

// LfsInstall activates git-lfs hooks for this repository
func (c *ShellClient) LfsInstall(ctx context.Context) error {
	_, err := c.run(ctx, OpLfsInstall, "lfs", "install")
	return err
}

// Fetch updates remote tracking refs for the sync branch
func (c *ShellClient) Fetch(ctx context.Context, remote, branch string) error {
	_, err := c.run(ctx, OpFetch, "fetch", "--prune", remote, branch)
	return err
}

// DiffRemote computes the name-status diff between the checked-out state and
// the fetched remote tip. On a freshly initialized repository HEAD does not
// resolve yet; every file on the remote tip is then reported as an add.
func (c *ShellClient) DiffRemote(ctx context.Context, remote, branch string) ([]Change, error) {
	ref := remote + "/" + branch
	if !c.hasHead(ctx) {
		out, err := c.run(ctx, OpDiff, "ls-tree", "-r", "--name-only", ref)
		if err != nil {
			return nil, err
		}
		var changes []Change
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			if line == "" {
				continue
			}
			changes = append(changes, Change{Kind: ChangeAdd, Path: line})
		}
		return changes, nil
	}

	out, err := c.run(ctx, OpDiff, "diff", "--name-status", "HEAD", ref)
	if err != nil {
		return nil, err
	}
	return ParseNameStatus(out), nil
}

// CleanPreview runs a forced recursive clean in dry-run mode and returns the
// untracked paths it would remove.
func (c *ShellClient) CleanPreview(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, OpCleanPreview, "clean", "-fd", "--dry-run")
	if err != nil {
		return nil, err
	}
	return ParseCleanDryRun(out), nil
}

// Reset discards local modifications to tracked files and moves the work
// tree and index to the remote tip. Intentionally not a merge.
func (c *ShellClient) Reset(ctx context.Context, remote, branch string) error {
	_, err := c.run(ctx, OpReset, "reset", "--hard", remote+"/"+branch)
	return err
}

// Clean force-removes untracked files and directories not covered by ignore rules
func (c *ShellClient) Clean(ctx context.Context) error {
	_, err := c.run(ctx, OpClean, "clean", "-fd")
	return err
}

// LfsPull downloads the large-file content referenced by tracked pointer files
func (c *ShellClient) LfsPull(ctx context.Context) error {
	_, err := c.run(ctx, OpLfsPull, "lfs", "pull")
	return err
}

// hasHead reports whether HEAD resolves to a commit
func (c *ShellClient) hasHead(ctx context.Context) bool {
	_, err := c.run(ctx, OpDiff, "rev-parse", "--verify", "HEAD")
	return err == nil
}

// run executes git with the given arguments in the work dir and returns its
// combined output. Failures carry the operation kind, exit code and output.
func (c *ShellClient) run(ctx context.Context, op Op, args ...string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.workDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &CommandError{
			Op:       op,
			Args:     args,
			ExitCode: exitCode(err),
			Output:   string(output),
			Err:      err,
		}
	}
	return string(output), nil
}

// exitCode extracts the subprocess exit code, or -1 if the command never ran
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
