//go:build integration || unit || test

package repositorydoubles

import (
	"context"

	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// SpyPostMergeHook implements repositories.PostMergeHook as a configurable
// spy.
type SpyPostMergeHook struct {
	CommitMessage string
	Err           error
	// spy: (repo, mergeCount) pairs received
	Calls []PostMergeHookCall
}

// PostMergeHookCall records one Run invocation.
type PostMergeHookCall struct {
	Repo       string
	MergeCount int
}

var _ repositories.PostMergeHook = (*SpyPostMergeHook)(nil)

func (s *SpyPostMergeHook) Run(_ context.Context, repo string, mergeCount int) (string, error) {
	s.Calls = append(s.Calls, PostMergeHookCall{Repo: repo, MergeCount: mergeCount})
	return s.CommitMessage, s.Err
}
