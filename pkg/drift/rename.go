package drift

import "github.com/housekit/housekit/pkg/normalize"

type (
	// RenameStrategy decides which remote column, if any, a local column
	// with no exact-name match should be reconciled against. Rename
	// detection is inherently heuristic ("renamed column" and "drop + add
	// of an unrelated column" look identical on the wire), so the strategy
	// sits behind an interface. A future version can take explicit rename
	// hints without touching the diff core.
	RenameStrategy interface {
		// Candidate returns the exact remote column name to treat as the
		// match for localName, or ok=false when no candidate exists.
		// remoteByCanonical maps canonical remote names to exact names; at
		// most one candidate is ever considered.
		Candidate(localName string, remoteByCanonical map[string]string) (remoteName string, ok bool)
	}

	// CanonicalRenameStrategy matches columns whose canonical names (lower-
	// cased, non-alphanumerics stripped) are equal. This is the default and
	// tolerates case and separator changes like user_id -> userId.
	CanonicalRenameStrategy struct{}
)

// Candidate implements RenameStrategy.
func (CanonicalRenameStrategy) Candidate(localName string, remoteByCanonical map[string]string) (string, bool) {
	remote, ok := remoteByCanonical[normalize.CanonicalName(localName)]
	return remote, ok
}
