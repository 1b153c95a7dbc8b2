package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// ErrPackageManagerUnavailable means a tool is missing and the platform
// package manager is not present to install it.
var ErrPackageManagerUnavailable = errors.New("winget is not available")

// InstallError means a tool is still unresolvable after its package was
// installed. A fresh terminal usually picks up the new search path.
type InstallError struct {
	Tool string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s is still not available after installation; restart your terminal and run packsync again", e.Tool)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Tool pairs an executable name with the package that provides it
type Tool struct {
	Name    string
	Package string
}

// PackageManager installs packages and refreshes the process search path
// after an install persisted new entries.
type PackageManager interface {
	// IsAvailable checks that the package manager executable is present
	IsAvailable(ctx context.Context) bool
	// Install installs the package silently and non-interactively
	Install(ctx context.Context, id string) error
	// RefreshPath merges the persisted machine- and user-scoped search
	// paths into the current process environment
	RefreshPath(ctx context.Context) error
}

// Ensurer makes sure required executables are resolvable, installing their
// packages when they are not.
type Ensurer struct {
	pm       PackageManager
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// NewEnsurer creates an Ensurer backed by the given package manager
func NewEnsurer(pm PackageManager, logger *slog.Logger) *Ensurer {
	return &Ensurer{
		pm:       pm,
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// Ensure checks every tool on the search path and installs missing ones.
// After an install the search path is refreshed from the persisted
// environment and the tool is checked again.
func (e *Ensurer) Ensure(ctx context.Context, tools []Tool) error {
	for _, tool := range tools {
		if _, err := e.lookPath(tool.Name); err == nil {
			e.logger.Debug("dependency present", "tool", tool.Name)
			continue
		}

		if !e.pm.IsAvailable(ctx) {
			return fmt.Errorf("%w: cannot install %s", ErrPackageManagerUnavailable, tool.Name)
		}

		e.logger.Info("installing dependency", "tool", tool.Name, "package", tool.Package)
		if err := e.pm.Install(ctx, tool.Package); err != nil {
			return &InstallError{Tool: tool.Name, Err: err}
		}

		if err := e.pm.RefreshPath(ctx); err != nil {
			e.logger.Warn("failed to refresh search path", "error", err)
		}

		if _, err := e.lookPath(tool.Name); err != nil {
			return &InstallError{Tool: tool.Name, Err: err}
		}
		e.logger.Info("dependency installed", "tool", tool.Name)
	}
	return nil
}
