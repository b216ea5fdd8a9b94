package repositories

import (
	"context"

	"github.com/kdevan/forkpin/internal/domain/entities"
)

// ConflictResolver resolves a single conflicted file (spec §4.5),
// record-time only. Implementations run the tiered pipeline (deterministic,
// reuse, classify, generate) and must return a file with no remaining
// conflict markers.
type ConflictResolver interface {
	Resolve(
		ctx context.Context,
		path string,
		conflicted string,
		prior *entities.FileResolution,
	) (resolved string, fileResolution entities.FileResolution, err error)
}
