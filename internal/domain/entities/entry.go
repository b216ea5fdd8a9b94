package entities

import "regexp"

// Entry is the top-level managed unit: a forked repository declaration.
type Entry struct {
	Name        string    `json:"-"`
	UpstreamURL string    `json:"upstream"`
	ForkURL     string    `json:"fork,omitempty"`
	Refs        []string  `json:"refs"`
	Workspace   Workspace `json:"workspace,omitempty"`
}

// Workspace holds the optional include/exclude glob lists for an entry.
type Workspace struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// IsReferenceOnly reports whether an entry has no refs to merge, meaning it
// gets a shallow clone instead of a recorded build.
func (e Entry) IsReferenceOnly() bool {
	return len(e.Refs) == 0
}

// RefKind identifies how a ref string should be dispatched to the VCS driver.
type RefKind int

const (
	// RefKindHash is a commit SHA, 7-40 hex characters.
	RefKindHash RefKind = iota
	// RefKindPR is a pull-request number, all digits.
	RefKindPR
	// RefKindBranch is anything else: a branch name.
	RefKindBranch
)

var (
	hashPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)
	prPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// ClassifyRef dispatches a ref string to its RefKind. Hash takes priority
// over PR, which takes priority over branch treatment — a ref that is both
// valid hex and all-digits (e.g. "1234567") is always a hash.
func ClassifyRef(ref string) RefKind {
	switch {
	case hashPattern.MatchString(ref):
		return RefKindHash
	case prPattern.MatchString(ref):
		return RefKindPR
	default:
		return RefKindBranch
	}
}
