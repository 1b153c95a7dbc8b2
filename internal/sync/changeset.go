package sync

import "packsync/internal/gitcmd"

// ChangeSet is the per-run view of what an apply would do: three disjoint
// lists from the tracked-tree diff plus the untracked paths a purge would
// remove. It exists only for the preview-confirm-apply sequence and is never
// persisted.
type ChangeSet struct {
	Added     []string
	Modified  []string
	Deleted   []string
	Untracked []string
}

// BuildChangeSet groups name-status diff entries by kind and attaches the
// untracked-removal candidates.
func BuildChangeSet(changes []gitcmd.Change, untracked []string) *ChangeSet {
	cs := &ChangeSet{Untracked: untracked}
	for _, change := range changes {
		switch change.Kind {
		case gitcmd.ChangeAdd:
			cs.Added = append(cs.Added, change.Path)
		case gitcmd.ChangeDelete:
			cs.Deleted = append(cs.Deleted, change.Path)
		default:
			cs.Modified = append(cs.Modified, change.Path)
		}
	}
	return cs
}

// Empty reports whether an apply would change nothing
func (cs *ChangeSet) Empty() bool {
	return cs.Total() == 0
}

// Total is the number of entries across all four lists
func (cs *ChangeSet) Total() int {
	return len(cs.Added) + len(cs.Modified) + len(cs.Deleted) + len(cs.Untracked)
}
