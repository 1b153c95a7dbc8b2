package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// fakePM implements PackageManager for testing.
type fakePM struct {
	available     bool
	installErr    error
	installed     []string
	refreshCalled bool
}

func (f *fakePM) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakePM) Install(_ context.Context, id string) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.installed = append(f.installed, id)
	return nil
}

func (f *fakePM) RefreshPath(_ context.Context) error {
	f.refreshCalled = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeLookPath resolves a name only after its package has been installed.
func fakeLookPath(pm *fakePM, present map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if pkg, ok := present[name]; ok && pkg == "" {
			return "/usr/bin/" + name, nil
		}
		for _, id := range pm.installed {
			if present[name] == id {
				return "/usr/bin/" + name, nil
			}
		}
		return "", fmt.Errorf("%s not found", name)
	}
}

func TestEnsure_AllPresent(t *testing.T) {
	pm := &fakePM{available: true}
	e := NewEnsurer(pm, testLogger())
	e.lookPath = fakeLookPath(pm, map[string]string{"git": "", "git-lfs": ""})

	err := e.Ensure(context.Background(), []Tool{
		{Name: "git", Package: "Git.Git"},
		{Name: "git-lfs", Package: "GitHub.GitLFS"},
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(pm.installed) != 0 {
		t.Errorf("nothing should be installed, got %v", pm.installed)
	}
}

func TestEnsure_InstallsMissing(t *testing.T) {
	pm := &fakePM{available: true}
	e := NewEnsurer(pm, testLogger())
	e.lookPath = fakeLookPath(pm, map[string]string{"git": "", "git-lfs": "GitHub.GitLFS"})

	err := e.Ensure(context.Background(), []Tool{
		{Name: "git", Package: "Git.Git"},
		{Name: "git-lfs", Package: "GitHub.GitLFS"},
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(pm.installed) != 1 || pm.installed[0] != "GitHub.GitLFS" {
		t.Errorf("expected one install of GitHub.GitLFS, got %v", pm.installed)
	}
	if !pm.refreshCalled {
		t.Error("expected search path refresh after install")
	}
}

func TestEnsure_PackageManagerUnavailable(t *testing.T) {
	pm := &fakePM{available: false}
	e := NewEnsurer(pm, testLogger())
	e.lookPath = fakeLookPath(pm, map[string]string{})

	err := e.Ensure(context.Background(), []Tool{{Name: "git", Package: "Git.Git"}})
	if !errors.Is(err, ErrPackageManagerUnavailable) {
		t.Errorf("expected ErrPackageManagerUnavailable, got %v", err)
	}
	if len(pm.installed) != 0 {
		t.Error("nothing should be installed without a package manager")
	}
}

func TestEnsure_StillMissingAfterInstall(t *testing.T) {
	pm := &fakePM{available: true}
	e := NewEnsurer(pm, testLogger())
	// Install succeeds but the tool never becomes resolvable.
	e.lookPath = func(string) (string, error) { return "", fmt.Errorf("not found") }

	err := e.Ensure(context.Background(), []Tool{{Name: "git", Package: "Git.Git"}})

	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if installErr.Tool != "git" {
		t.Errorf("InstallError.Tool = %s, want git", installErr.Tool)
	}
	// The message must point at the usual fix.
	if got := installErr.Error(); !strings.Contains(got, "restart your terminal") {
		t.Errorf("expected restart guidance in %q", got)
	}
}

func TestEnsure_FailedInstall(t *testing.T) {
	pm := &fakePM{available: true, installErr: fmt.Errorf("winget exploded")}
	e := NewEnsurer(pm, testLogger())
	e.lookPath = func(string) (string, error) { return "", fmt.Errorf("not found") }

	err := e.Ensure(context.Background(), []Tool{{Name: "git", Package: "Git.Git"}})

	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected InstallError, got %v", err)
	}
	if !errors.Is(err, pm.installErr) {
		t.Error("expected the underlying install failure to be wrapped")
	}
}
