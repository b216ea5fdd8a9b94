package entities

import "fmt"

// CommitIdentity is the deterministic author/committer identity every
// commit produced by the core carries (spec §4.3): fixed name/email, a
// UTC epoch-seconds timestamp controlled entirely by the caller.
type CommitIdentity struct {
	Name    string
	Email   string
	EpochAt int64
}

const (
	identityName  = "ci"
	identityEmail = "ci@local"
)

// MergeStepIdentity returns the identity for the i-th merge commit (1-based).
func MergeStepIdentity(stepIndex int) CommitIdentity {
	return CommitIdentity{Name: identityName, Email: identityEmail, EpochAt: int64(stepIndex)}
}

// PostMergeHookIdentity returns the identity for the post-merge hook commit.
func PostMergeHookIdentity(mergeCount int) CommitIdentity {
	return CommitIdentity{Name: identityName, Email: identityEmail, EpochAt: int64(mergeCount + 1)}
}

// LocalPatchIdentity returns the identity for the i-th (0-based) local
// patch commit.
func LocalPatchIdentity(mergeCount, patchIndex int) CommitIdentity {
	return CommitIdentity{
		Name:    identityName,
		Email:   identityEmail,
		EpochAt: int64(mergeCount + 2 + patchIndex),
	}
}

// Env returns the GIT_* environment overrides that make a git subprocess
// commit under this identity, UTC, with the given epoch timestamp.
func (c CommitIdentity) Env() []string {
	date := fmt.Sprintf("%d +0000", c.EpochAt)
	return []string{
		"GIT_AUTHOR_NAME=" + c.Name,
		"GIT_AUTHOR_EMAIL=" + c.Email,
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_NAME=" + c.Name,
		"GIT_COMMITTER_EMAIL=" + c.Email,
		"GIT_COMMITTER_DATE=" + date,
	}
}
