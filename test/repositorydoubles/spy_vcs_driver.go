//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies)
// for repository interfaces. These are hand-crafted implementations — no
// mock frameworks.
package repositorydoubles

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// SpyVCSDriver implements repositories.VCSDriver as a configurable spy.
// Configure the response fields for the methods a test exercises, then
// inspect the call-tracking fields to verify behavior.
type SpyVCSDriver struct {
	mu sync.Mutex

	CloneErr error
	// spy: (url, dest) pairs passed to Clone
	ClonedURLs []string

	SetOptionErr error

	FetchErr error
	// spy: refs fetched by any Fetch* method
	Fetched []string

	RevParseResult string
	RevParseErr    error

	CurrentBranchResult string
	CurrentBranchErr    error

	Branches        []string
	ListBranchesErr error

	CheckoutErr error
	// spy: revspecs passed to Checkout
	CheckedOut      []string
	CreateBranchErr error

	// MergeOutcomes lets a test script one MergeNoFF result per call,
	// consumed in order; falls back to MergeResult/MergeErr when exhausted.
	// CherryPickRange uses CherryPickOutcome/CherryPickErr instead.
	MergeOutcomes []repositories.MergeOutcome
	MergeResult   repositories.MergeOutcome
	MergeErr      error
	// spy: merge commit messages passed to MergeNoFF
	MergeMessages []string
	// ConflictFiles, when set, is written into the repo directory on the
	// next MergeNoFF call, simulating conflict markers left by a real merge.
	ConflictFiles map[string]string

	UnmergedPaths []string
	ListUnmergedErr error

	StageAllErr error

	WriteMergeMsgErr error

	MergeContinueErr error

	CommitErr error
	// spy: commit messages passed to Commit
	CommitMessages []string

	ApplyPatchErr error

	DiffQuietResult bool
	DiffQuietErr    error

	Untracked        []string
	ListUntrackedErr error

	Stashed      []string
	StashListErr error

	LogLines      []string
	LogErr        error

	CherryPickOutcome repositories.MergeOutcome
	CherryPickErr     error

	AddRemoteErr error

	DiffCachedResult string
	DiffCachedErr    error

	ResetHardErr error
}

var _ repositories.VCSDriver = (*SpyVCSDriver)(nil)

func (s *SpyVCSDriver) Clone(_ context.Context, url, _ string, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClonedURLs = append(s.ClonedURLs, url)
	return s.CloneErr
}

func (s *SpyVCSDriver) SetOption(_ context.Context, _, _, _ string) error {
	return s.SetOptionErr
}

func (s *SpyVCSDriver) FetchSHA(_ context.Context, _, sha string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetched = append(s.Fetched, sha)
	return s.FetchErr
}

func (s *SpyVCSDriver) FetchPR(_ context.Context, _ string, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetched = append(s.Fetched, "pr")
	_ = number
	return s.FetchErr
}

func (s *SpyVCSDriver) FetchBranch(_ context.Context, _, branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetched = append(s.Fetched, branch)
	return s.FetchErr
}

func (s *SpyVCSDriver) RevParse(_ context.Context, _, _ string) (string, error) {
	return s.RevParseResult, s.RevParseErr
}

func (s *SpyVCSDriver) CurrentBranch(_ context.Context, _ string) (string, error) {
	return s.CurrentBranchResult, s.CurrentBranchErr
}

func (s *SpyVCSDriver) ListBranches(_ context.Context, _ string) ([]string, error) {
	return s.Branches, s.ListBranchesErr
}

func (s *SpyVCSDriver) Checkout(_ context.Context, _, revspec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CheckedOut = append(s.CheckedOut, revspec)
	return s.CheckoutErr
}

func (s *SpyVCSDriver) CreateBranch(_ context.Context, _, _ string) error {
	return s.CreateBranchErr
}

func (s *SpyVCSDriver) MergeNoFF(
	_ context.Context, repo, _, message string, _ []string,
) (repositories.MergeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MergeMessages = append(s.MergeMessages, message)
	for path, content := range s.ConflictFiles {
		full := filepath.Join(repo, path)
		_ = os.MkdirAll(filepath.Dir(full), 0o755)
		_ = os.WriteFile(full, []byte(content), 0o644)
	}
	if len(s.MergeOutcomes) > 0 {
		outcome := s.MergeOutcomes[0]
		s.MergeOutcomes = s.MergeOutcomes[1:]
		return outcome, s.MergeErr
	}
	return s.MergeResult, s.MergeErr
}

func (s *SpyVCSDriver) ListUnmerged(_ context.Context, _ string) ([]string, error) {
	return s.UnmergedPaths, s.ListUnmergedErr
}

func (s *SpyVCSDriver) StageAll(_ context.Context, _ string) error {
	return s.StageAllErr
}

func (s *SpyVCSDriver) WriteMergeMsg(_ context.Context, _, _ string) error {
	return s.WriteMergeMsgErr
}

func (s *SpyVCSDriver) MergeContinueNoEdit(_ context.Context, _ string, _ []string) error {
	return s.MergeContinueErr
}

func (s *SpyVCSDriver) Commit(_ context.Context, _, message string, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CommitMessages = append(s.CommitMessages, message)
	return s.CommitErr
}

func (s *SpyVCSDriver) ApplyPatch(_ context.Context, _, _ string) error {
	return s.ApplyPatchErr
}

func (s *SpyVCSDriver) DiffQuiet(_ context.Context, _, _, _ string, _ bool) (bool, error) {
	return s.DiffQuietResult, s.DiffQuietErr
}

func (s *SpyVCSDriver) ListUntracked(_ context.Context, _ string) ([]string, error) {
	return s.Untracked, s.ListUntrackedErr
}

func (s *SpyVCSDriver) StashList(_ context.Context, _ string) ([]string, error) {
	return s.Stashed, s.StashListErr
}

func (s *SpyVCSDriver) LogOnelineRange(_ context.Context, _, _, _ string) ([]string, error) {
	return s.LogLines, s.LogErr
}

func (s *SpyVCSDriver) CherryPickRange(
	_ context.Context, _, _, _ string, _ []string,
) (repositories.MergeOutcome, error) {
	return s.CherryPickOutcome, s.CherryPickErr
}

func (s *SpyVCSDriver) AddRemote(_ context.Context, _, _, _ string) error {
	return s.AddRemoteErr
}

func (s *SpyVCSDriver) DiffCached(_ context.Context, _, _ string) (string, error) {
	return s.DiffCachedResult, s.DiffCachedErr
}

func (s *SpyVCSDriver) ResetHard(_ context.Context, _, _ string) error {
	return s.ResetHardErr
}
