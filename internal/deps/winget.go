package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// WingetClient implements PackageManager by shelling out to winget
type WingetClient struct{}

// NewWingetClient creates a new winget client
func NewWingetClient() *WingetClient {
	return &WingetClient{}
}

// IsAvailable checks that winget itself is resolvable
func (c *WingetClient) IsAvailable(_ context.Context) bool {
	_, err := exec.LookPath("winget")
	return err == nil
}

// Install installs the package silently, accepting source and package
// agreements so the run never blocks on winget's own prompts.
func (c *WingetClient) Install(ctx context.Context, id string) error {
	cmd := exec.CommandContext(ctx, "winget",
		"install",
		"--id", id,
		"--exact",
		"--silent",
		"--accept-source-agreements",
		"--accept-package-agreements",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("winget install %s failed: %w: %s", id, err, string(output))
	}
	return nil
}

// RefreshPath appends the machine- and user-scoped persisted Path values to
// the current process PATH. Winget installs write to the persisted
// environment, which a running process does not see otherwise. No-op on
// non-Windows platforms.
func (c *WingetClient) RefreshPath(ctx context.Context) error {
	if runtime.GOOS != "windows" {
		return nil
	}

	machine, err := persistedPath(ctx, "Machine")
	if err != nil {
		return err
	}
	user, err := persistedPath(ctx, "User")
	if err != nil {
		return err
	}

	merged := os.Getenv("PATH")
	for _, p := range []string{machine, user} {
		if p = strings.Trim(p, "; \r\n"); p != "" {
			merged += ";" + p
		}
	}
	return os.Setenv("PATH", merged)
}

// persistedPath reads the Path variable for one registry scope
func persistedPath(ctx context.Context, scope string) (string, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		fmt.Sprintf("[Environment]::GetEnvironmentVariable('Path', '%s')", scope))
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read %s-scoped Path: %w", scope, err)
	}
	return strings.TrimSpace(string(output)), nil
}
