package gitcmd

import "strings"

// ChangeKind classifies one entry of a name-status diff
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeModify
	ChangeDelete
)

// Change is one tracked-file difference between HEAD and the remote tip
type Change struct {
	Kind ChangeKind
	Path string
}

// ParseNameStatus parses `git diff --name-status` output. Entries are
// tab-separated: a status letter followed by one path, or two paths for
// renames and copies. Renames and copies are reported as a delete of the old
// path plus an add of the new one; type changes and unknown letters count as
// modifications.
func ParseNameStatus(out string) []Change {
	var changes []Change
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		status, path := fields[0], fields[1]

		switch {
		case strings.HasPrefix(status, "A"):
			changes = append(changes, Change{Kind: ChangeAdd, Path: path})
		case strings.HasPrefix(status, "D"):
			changes = append(changes, Change{Kind: ChangeDelete, Path: path})
		case strings.HasPrefix(status, "R"), strings.HasPrefix(status, "C"):
			if len(fields) < 3 {
				changes = append(changes, Change{Kind: ChangeModify, Path: path})
				continue
			}
			if strings.HasPrefix(status, "R") {
				changes = append(changes, Change{Kind: ChangeDelete, Path: path})
			}
			changes = append(changes, Change{Kind: ChangeAdd, Path: fields[2]})
		default:
			// M, T and anything new git grows later
			changes = append(changes, Change{Kind: ChangeModify, Path: path})
		}
	}
	return changes
}

// cleanRemovePrefix is the line grammar of `git clean --dry-run` output.
// There is no porcelain mode for clean, so the prefix match is the contract.
const cleanRemovePrefix = "Would remove "

// ParseCleanDryRun parses `git clean -fd --dry-run` output into the list of
// untracked paths that a real clean would remove. Lines such as
// "Would skip repository ..." are ignored.
func ParseCleanDryRun(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, cleanRemovePrefix) {
			continue
		}
		path := strings.TrimSuffix(strings.TrimPrefix(line, cleanRemovePrefix), "/")
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
