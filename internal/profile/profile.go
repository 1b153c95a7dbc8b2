package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrRootNotFound means the launcher instance directory itself is missing
	ErrRootNotFound = errors.New("profiles root does not exist")
	// ErrNoProfiles means the root exists but holds no profile directories
	ErrNoProfiles = errors.New("no profiles found")
	// ErrInvalidProfile means the chosen directory lacks the marker subdirectory
	ErrInvalidProfile = errors.New("not a valid modpack profile")
)

// Profile is one modpack instance directory managed by the launcher.
// packsync never creates or deletes profiles, only syncs into them.
type Profile struct {
	Name string
	Path string
}

// Discover enumerates the immediate subdirectories of root as candidate
// profiles, sorted by name.
func Discover(root string) ([]Profile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to read profiles root: %w", err)
	}

	var profiles []Profile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		profiles = append(profiles, Profile{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		})
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProfiles, root)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// Validate checks that the marker subdirectory exists directly inside the
// profile. The launcher creates it for every real modpack instance.
func Validate(p Profile, marker string) error {
	info, err := os.Stat(filepath.Join(p.Path, marker))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s has no %q directory", ErrInvalidProfile, p.Name, marker)
	}
	return nil
}
