package gitcmd

import (
	"context"
	"log/slog"
)

// Bootstrap makes sure the profile directory is a repository that tracks the
// distribution remote. It is idempotent and callable on every run: a missing
// repository is initialized on the sync branch, the remote URL is re-pointed
// unconditionally, and the large-file extension is activated.
func Bootstrap(ctx context.Context, c Client, remote, url, branch string, logger *slog.Logger) error {
	if !c.IsRepo() {
		logger.Info("initializing repository", "branch", branch)
		if err := c.Init(ctx, branch); err != nil {
			return err
		}
	}

	if err := c.EnsureRemote(ctx, remote, url); err != nil {
		return err
	}

	if err := c.LfsInstall(ctx); err != nil {
		return err
	}

	logger.Debug("repository ready", "remote", remote, "url", url)
	return nil
}
