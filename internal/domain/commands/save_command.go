package commands

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Save is the interface for the save lifecycle command (spec §4.9).
type Save interface {
	Execute(ctx context.Context, opts entities.SaveOptions) error
}

// SaveCommand captures the worktree's uncommitted/staged/untracked changes
// as a new local patch, then rebuilds HEAD deterministically.
type SaveCommand struct {
	entries repositories.EntryStore
	pins    repositories.PinStore
	vcs     repositories.VCSDriver
}

var _ Save = (*SaveCommand)(nil)

// NewSaveCommand constructs a SaveCommand.
func NewSaveCommand(entries repositories.EntryStore, pins repositories.PinStore, vcs repositories.VCSDriver) *SaveCommand {
	return &SaveCommand{entries: entries, pins: pins, vcs: vcs}
}

func (c *SaveCommand) Execute(ctx context.Context, opts entities.SaveOptions) error {
	entry, err := c.entries.Get(opts.Name)
	if err != nil {
		return err
	}
	repo := c.pins.CloneDir(entry.Name)
	if _, statErr := os.Stat(repo); os.IsNotExist(statErr) {
		return fmt.Errorf("%w: no clone present for %q", entities.ErrStateMissing, entry.Name)
	}
	pinnedHead, headErr := c.pins.ReadHead(entry.Name)
	if headErr != nil {
		return headErr
	}
	branch, branchErr := c.vcs.CurrentBranch(ctx, repo)
	if branchErr != nil {
		return branchErr
	}
	if branch != wipBranch {
		return fmt.Errorf("%w: current branch is %q, expected %q", entities.ErrGuardFailed, branch, wipBranch)
	}

	clean, changesErr := c.hasNoChanges(ctx, repo, pinnedHead)
	if changesErr != nil {
		return changesErr
	}
	if clean {
		logger.Infof("%s has no changes vs pinned HEAD, save is a no-op", entry.Name)
		return nil
	}

	existing, listErr := c.pins.ListLocalPatches(entry.Name)
	if listErr != nil {
		return listErr
	}
	manifest, _, manifestErr := c.pins.ReadManifest(entry.Name)
	if manifestErr != nil {
		return manifestErr
	}

	if stageErr := c.vcs.StageAll(ctx, repo); stageErr != nil {
		return stageErr
	}
	diff, diffErr := c.vcs.DiffCached(ctx, repo, pinnedHead)
	if diffErr != nil {
		return diffErr
	}

	number := len(existing) + 1
	patch := entities.LocalPatch{Number: number, Description: entities.SanitizeDescription(opts.Desc), Diff: diff}
	if writeErr := c.pins.WriteLocalPatch(entry.Name, patch); writeErr != nil {
		return writeErr
	}

	if rebuildErr := c.rebuild(ctx, repo, entry.Name, pinnedHead, len(existing), manifest.MergeCount()); rebuildErr != nil {
		_ = c.pins.RemoveLocalPatch(entry.Name, number)
		return rebuildErr
	}

	return nil
}

func (c *SaveCommand) hasNoChanges(ctx context.Context, repo, pinnedHead string) (bool, error) {
	worktreeClean, err := c.vcs.DiffQuiet(ctx, repo, pinnedHead, "", false)
	if err != nil {
		return false, err
	}
	if !worktreeClean {
		return false, nil
	}
	indexClean, err := c.vcs.DiffQuiet(ctx, repo, pinnedHead, "", true)
	if err != nil {
		return false, err
	}
	if !indexClean {
		return false, nil
	}
	untracked, err := c.vcs.ListUntracked(ctx, repo)
	if err != nil {
		return false, err
	}
	return len(untracked) == 0, nil
}

// rebuild resets the clone back to the pre-local-patches base (the pinned
// HEAD minus the previously-applied local patches) and re-applies every
// local patch, including the one just written, deterministically.
func (c *SaveCommand) rebuild(ctx context.Context, repo, name, pinnedHead string, existingCount, mergeCount int) error {
	base := fmt.Sprintf("%s~%d", pinnedHead, existingCount)
	if resetErr := c.vcs.ResetHard(ctx, repo, base); resetErr != nil {
		return resetErr
	}
	patches, listErr := c.pins.ListLocalPatches(name)
	if listErr != nil {
		return listErr
	}
	if applyErr := applyLocalPatches(ctx, c.vcs, repo, patches, mergeCount); applyErr != nil {
		return applyErr
	}
	newHead, revErr := c.vcs.RevParse(ctx, repo, "HEAD")
	if revErr != nil {
		return revErr
	}
	return c.pins.WriteHead(name, newHead)
}
