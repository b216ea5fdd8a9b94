//go:build integration || unit || test

package repositorydoubles

import (
	"fmt"
	"sort"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// StubEntryStore is an in-memory repositories.EntryStore backed by a map
// literal a test can build inline.
type StubEntryStore struct {
	Entries map[string]entities.Entry
}

var _ repositories.EntryStore = (*StubEntryStore)(nil)

func (s *StubEntryStore) Get(name string) (entities.Entry, error) {
	entry, ok := s.Entries[name]
	if !ok {
		return entities.Entry{}, fmt.Errorf("%w: %q", entities.ErrEntryNotFound, name)
	}
	return entry, nil
}

func (s *StubEntryStore) AllNames() []string {
	names := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
