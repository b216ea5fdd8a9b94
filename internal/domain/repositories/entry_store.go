package repositories

import "github.com/kdevan/forkpin/internal/domain/entities"

// EntryStore abstracts the config store (spec §4.1): a keyed map of fork
// entries loaded once at startup.
type EntryStore interface {
	Get(name string) (entities.Entry, error)
	AllNames() []string
}
