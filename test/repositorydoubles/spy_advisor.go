//go:build integration || unit || test

package repositorydoubles

import (
	"context"
	"sync"

	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// SpyAdvisor implements repositories.Advisor as a configurable spy. Tests
// that assert "advisor received zero requests" (tier reuse/fingerprint
// scenarios) read ClassifyCalls/GenerateCalls.
type SpyAdvisor struct {
	mu sync.Mutex

	ClassifyResult string
	ClassifyErr    error
	ClassifyCalls  []string

	GenerateResult string
	GenerateErr    error
	GenerateCalls  []string
}

var _ repositories.Advisor = (*SpyAdvisor)(nil)

func (s *SpyAdvisor) Classify(_ context.Context, batch string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClassifyCalls = append(s.ClassifyCalls, batch)
	return s.ClassifyResult, s.ClassifyErr
}

func (s *SpyAdvisor) Generate(_ context.Context, batch string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GenerateCalls = append(s.GenerateCalls, batch)
	return s.GenerateResult, s.GenerateErr
}
