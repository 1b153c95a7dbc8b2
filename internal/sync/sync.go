package sync

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pterm/pterm"

	"packsync/internal/config"
	"packsync/internal/gitcmd"
	"packsync/internal/profile"
)

// Backuper archives a profile directory before a destructive apply
type Backuper interface {
	Export(profilePath string, now time.Time) (string, error)
}

// Options select the operating mode for one run. NoInput suppresses every
// prompt; without AssumeYes the confirmations are then declined silently.
type Options struct {
	Policy    config.UntrackedPolicy
	Backup    bool
	AssumeYes bool
	NoInput   bool
	DryRun    bool
}

// Engine orchestrates the sync pipeline: bootstrap, fetch, preview, confirm,
// backup, apply. One profile, one remote, one branch per run; the remote
// always wins.
type Engine struct {
	cfg    *config.Config
	git    gitcmd.Client
	backup Backuper
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
	opts   Options
}

// NewEngine creates a sync engine for one profile's repository. All prompts
// of a run read from a single scanner over in, so piped answers to
// consecutive questions arrive in order.
func NewEngine(cfg *config.Config, gitClient gitcmd.Client, backuper Backuper, in io.Reader, out io.Writer, logger *slog.Logger, opts Options) *Engine {
	return &Engine{
		cfg:    cfg,
		git:    gitClient,
		backup: backuper,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
		opts:   opts,
	}
}

// Run executes the complete sync for the given profile
func (e *Engine) Run(ctx context.Context, prof profile.Profile) error {
	e.logger.Info("starting sync",
		"profile", prof.Name,
		"repo", e.cfg.Repo.URL,
		"branch", e.cfg.Repo.Branch,
		"untracked", string(e.opts.Policy),
		"dry_run", e.opts.DryRun)

	if err := gitcmd.Bootstrap(ctx, e.git, e.cfg.Repo.Remote, e.cfg.Repo.URL, e.cfg.Repo.Branch, e.logger); err != nil {
		return err
	}

	e.logger.Info("fetching remote state", "ref", e.cfg.RemoteRef())
	if err := e.git.Fetch(ctx, e.cfg.Repo.Remote, e.cfg.Repo.Branch); err != nil {
		return err
	}

	cs, err := e.preview(ctx)
	if err != nil {
		return err
	}

	if cs.Empty() {
		fmt.Fprintf(e.out, "%s is already up to date.\n", prof.Name)
		return nil
	}

	e.renderSummary(cs)

	if e.opts.DryRun {
		e.logger.Info("dry-run complete, no changes applied")
		return nil
	}

	if !e.confirm(fmt.Sprintf("Apply these %d changes to %s?", cs.Total(), prof.Name)) {
		fmt.Fprintln(e.out, "Sync cancelled, nothing was changed.")
		return nil
	}

	if e.opts.Backup {
		if e.confirm("Create a backup of the profile first?") {
			archive, err := e.backup.Export(prof.Path, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Backup written to %s\n", archive)
		}
	}

	if err := e.apply(ctx); err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%s is now in sync with %s.\n", prof.Name, e.cfg.RemoteRef())
	return nil
}

// confirm resolves one yes/no decision. AssumeYes answers yes without
// prompting; NoInput answers no without prompting; otherwise the user is
// asked.
func (e *Engine) confirm(message string) bool {
	if e.opts.AssumeYes {
		return true
	}
	if e.opts.NoInput {
		return false
	}
	return Confirm(e.in, e.out, message)
}

// preview builds the change set without mutating the working tree. The
// untracked-removal list is only computed when the policy would actually
// remove untracked files.
func (e *Engine) preview(ctx context.Context) (*ChangeSet, error) {
	changes, err := e.git.DiffRemote(ctx, e.cfg.Repo.Remote, e.cfg.Repo.Branch)
	if err != nil {
		return nil, err
	}

	var untracked []string
	if e.opts.Policy == config.UntrackedPurge {
		untracked, err = e.git.CleanPreview(ctx)
		if err != nil {
			return nil, err
		}
	}

	cs := BuildChangeSet(changes, untracked)
	e.logger.Info("change preview",
		"add", len(cs.Added),
		"modify", len(cs.Modified),
		"delete", len(cs.Deleted),
		"untracked", len(cs.Untracked))
	return cs, nil
}

// apply resets tracked state to the remote tip, purges untracked files when
// the policy says so, and pulls large-file content. The first failing step
// aborts the rest; there is no rollback.
func (e *Engine) apply(ctx context.Context) error {
	e.logger.Info("resetting working tree", "ref", e.cfg.RemoteRef())
	if err := e.git.Reset(ctx, e.cfg.Repo.Remote, e.cfg.Repo.Branch); err != nil {
		return err
	}

	if e.opts.Policy == config.UntrackedPurge {
		e.logger.Info("removing untracked files")
		if err := e.git.Clean(ctx); err != nil {
			return err
		}
	}

	e.logger.Info("pulling large-file content")
	return e.git.LfsPull(ctx)
}

// renderSummary prints the grouped, colored change listing with per-category
// counts.
func (e *Engine) renderSummary(cs *ChangeSet) {
	fmt.Fprintf(e.out, "\nChanges from %s:\n", e.cfg.RemoteRef())
	e.writeGroup(pterm.FgGreen, "Added", cs.Added)
	e.writeGroup(pterm.FgYellow, "Modified", cs.Modified)
	e.writeGroup(pterm.FgRed, "Deleted", cs.Deleted)
	e.writeGroup(pterm.FgMagenta, "Untracked, will be removed", cs.Untracked)
	fmt.Fprintln(e.out)
}

func (e *Engine) writeGroup(color pterm.Color, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(e.out, "%s (%d):\n", color.Sprint(label), len(paths))
	for _, p := range paths {
		fmt.Fprintf(e.out, "  %s\n", p)
	}
}
