package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Status is the interface for the status predicate (spec §4.8): it decides
// whether a live clone is safe to wipe, and doubles as the guard for
// record, clean, and reset.
type Status interface {
	Execute(ctx context.Context, entry entities.Entry) (entities.Status, error)
}

// StatusCommand implements Status against a pin store and VCS driver.
type StatusCommand struct {
	pins repositories.PinStore
	vcs  repositories.VCSDriver
}

var _ Status = (*StatusCommand)(nil)

// NewStatusCommand constructs a StatusCommand.
func NewStatusCommand(pins repositories.PinStore, vcs repositories.VCSDriver) *StatusCommand {
	return &StatusCommand{pins: pins, vcs: vcs}
}

func (c *StatusCommand) Execute(ctx context.Context, entry entities.Entry) (entities.Status, error) {
	cloneDir := c.pins.CloneDir(entry.Name)
	if _, statErr := os.Stat(cloneDir); os.IsNotExist(statErr) {
		return entities.CleanStatus(), nil
	}

	pinnedHead, headErr := c.pins.ReadHead(entry.Name)
	if headErr != nil {
		patches, listErr := c.pins.ListLocalPatches(entry.Name)
		if listErr != nil {
			return entities.Status{}, listErr
		}
		if entry.IsReferenceOnly() && len(patches) == 0 {
			return entities.CleanStatus(), nil
		}
		return entities.Status{}, fmt.Errorf("%w: no HEAD pin and entry is not reference-only", entities.ErrStateMissing)
	}

	currentHead, revErr := c.vcs.RevParse(ctx, cloneDir, "HEAD")
	if revErr != nil {
		return entities.Status{}, revErr
	}
	if currentHead != pinnedHead {
		log, logErr := c.vcs.LogOnelineRange(ctx, cloneDir, pinnedHead, currentHead)
		if logErr != nil {
			return entities.DirtyStatus(fmt.Sprintf("HEAD %s diverges from pinned %s", currentHead, pinnedHead)), nil
		}
		return entities.DirtyStatus(fmt.Sprintf(
			"HEAD diverges from pinned %s by %d commit(s): %v", pinnedHead, len(log), log,
		)), nil
	}

	worktreeClean, worktreeErr := c.vcs.DiffQuiet(ctx, cloneDir, pinnedHead, "", false)
	if worktreeErr != nil {
		return entities.Status{}, worktreeErr
	}
	if !worktreeClean {
		return entities.DirtyStatus("worktree differs from pinned HEAD"), nil
	}

	indexClean, indexErr := c.vcs.DiffQuiet(ctx, cloneDir, pinnedHead, "", true)
	if indexErr != nil {
		return entities.Status{}, indexErr
	}
	if !indexClean {
		return entities.DirtyStatus("index differs from pinned HEAD"), nil
	}

	untracked, untrackedErr := c.vcs.ListUntracked(ctx, cloneDir)
	if untrackedErr != nil {
		return entities.Status{}, untrackedErr
	}
	if len(untracked) > 0 {
		return entities.DirtyStatus(fmt.Sprintf("untracked files present: %v", untracked)), nil
	}

	stashed, stashErr := c.vcs.StashList(ctx, cloneDir)
	if stashErr != nil {
		return entities.Status{}, stashErr
	}
	if len(stashed) > 0 {
		return entities.DirtyStatus(fmt.Sprintf("stashed entries present: %v", stashed)), nil
	}

	return entities.CleanStatus(), nil
}
