package repositories

import "context"

// PostMergeHook models repository-specific post-processing invoked once
// after the merge loop finishes, before local patches are replayed (spec
// §4.6 step 6). Implementations must be idempotent: if nothing changed,
// they commit nothing.
type PostMergeHook interface {
	// Run is invoked once with the repo path and the number of merge
	// steps applied so far. A returned commit message of "" means no
	// commit should be made.
	Run(ctx context.Context, repo string, mergeCount int) (commitMessage string, err error)
}
