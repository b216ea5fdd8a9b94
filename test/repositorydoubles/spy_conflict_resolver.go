//go:build integration || unit || test

package repositorydoubles

import (
	"context"
	"sync"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// SpyConflictResolver implements repositories.ConflictResolver as a
// configurable spy. ResultsByPath lets a test script a distinct result per
// conflicted path; Result/FileResolution/Err are the fallback for paths not
// present in the map.
type SpyConflictResolver struct {
	mu sync.Mutex

	ResultsByPath map[string]ConflictResolverResult
	Result        string
	FileResolution entities.FileResolution
	Err           error

	Calls []string
}

// ConflictResolverResult is one scripted Resolve response.
type ConflictResolverResult struct {
	Resolved       string
	FileResolution entities.FileResolution
	Err            error
}

var _ repositories.ConflictResolver = (*SpyConflictResolver)(nil)

func (s *SpyConflictResolver) Resolve(
	_ context.Context, path, _ string, _ *entities.FileResolution,
) (string, entities.FileResolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, path)
	if result, ok := s.ResultsByPath[path]; ok {
		return result.Resolved, result.FileResolution, result.Err
	}
	return s.Result, s.FileResolution, s.Err
}
