package repositories

import "context"

// MergeOutcome reports whether a merge or cherry-pick landed cleanly or
// stopped with conflicts left in the working tree.
type MergeOutcome int

const (
	MergeOk MergeOutcome = iota
	MergeConflicted
)

// VCSDriver wraps every git operation the core needs, enumerated in full
// (spec §4.3). Every commit it creates must be built under the caller's
// supplied identity environment (entities.CommitIdentity.Env()); the driver
// never chooses an identity itself.
type VCSDriver interface {
	Clone(ctx context.Context, url, dest string, blobFilter bool) error

	// SetOption configures a cloned repository. Called once per new clone
	// to set diff3 conflict style and 40-char abbrev.
	SetOption(ctx context.Context, repo, key, value string) error

	FetchSHA(ctx context.Context, repo, sha string, depth int) error
	FetchPR(ctx context.Context, repo string, number int) error
	FetchBranch(ctx context.Context, repo, branch string) error

	RevParse(ctx context.Context, repo, revspec string) (string, error)
	CurrentBranch(ctx context.Context, repo string) (string, error)
	ListBranches(ctx context.Context, repo string) ([]string, error)
	Checkout(ctx context.Context, repo, revspec string) error
	CreateBranch(ctx context.Context, repo, name string) error

	MergeNoFF(ctx context.Context, repo, sha, message string, env []string) (MergeOutcome, error)
	ListUnmerged(ctx context.Context, repo string) ([]string, error)
	StageAll(ctx context.Context, repo string) error
	WriteMergeMsg(ctx context.Context, repo, message string) error
	MergeContinueNoEdit(ctx context.Context, repo string, env []string) error

	Commit(ctx context.Context, repo, message string, env []string) error
	ApplyPatch(ctx context.Context, repo, path string) error

	DiffQuiet(ctx context.Context, repo, a, b string, cached bool) (bool, error)
	ListUntracked(ctx context.Context, repo string) ([]string, error)
	StashList(ctx context.Context, repo string) ([]string, error)

	LogOnelineRange(ctx context.Context, repo, a, b string) ([]string, error)
	CherryPickRange(ctx context.Context, repo, a, b string, env []string) (MergeOutcome, error)

	AddRemote(ctx context.Context, repo, name, url string) error

	// DiffCached returns a unified diff of the staged tree against base,
	// the payload of a local patch (spec §3, local patch).
	DiffCached(ctx context.Context, repo, base string) (string, error)

	// ResetHard discards all worktree/index state and moves HEAD to revspec.
	ResetHard(ctx context.Context, repo, revspec string) error
}
