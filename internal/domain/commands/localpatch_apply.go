package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// applyLocalPatches applies every local-NNN-*.patch for an entry, in
// lexicographic filename order, each as one deterministic commit (spec
// §4.6 step 7, §4.7 step 6). The commit message is derived purely from the
// patch's own description, so record and replay produce byte-identical
// commits for the same pin state.
//
// patches must already be resolved by the caller against the real,
// unstaged pin root: once record/replay have entered a staging override,
// PinDir resolves to the freshly-created and still-empty staging
// directory, so a ListLocalPatches call made after staging begins would
// silently see no patches at all.
func applyLocalPatches(
	ctx context.Context, vcs repositories.VCSDriver, repo string, patches []entities.LocalPatch, mergeCount int,
) error {
	for i, patch := range patches {
		tmpFile, writeErr := writeTempPatch(repo, patch)
		if writeErr != nil {
			return fmt.Errorf("%w: %w", entities.ErrLocalPatch, writeErr)
		}

		if applyErr := vcs.ApplyPatch(ctx, repo, tmpFile); applyErr != nil {
			_ = os.Remove(tmpFile)
			return fmt.Errorf("%w: applying %s: %w", entities.ErrLocalPatch, filepath.Base(tmpFile), applyErr)
		}
		_ = os.Remove(tmpFile)

		identity := entities.LocalPatchIdentity(mergeCount, i)
		message := fmt.Sprintf("patch: %s", patch.Description)
		if commitErr := vcs.Commit(ctx, repo, message, identity.Env()); commitErr != nil {
			return fmt.Errorf("%w: committing patch %d: %w", entities.ErrLocalPatch, patch.Number, commitErr)
		}
		logger.Debugf("applied local patch %03d-%s", patch.Number, patch.Description)
	}

	return nil
}

func writeTempPatch(repo string, patch entities.LocalPatch) (string, error) {
	f, err := os.CreateTemp(repo, "local-patch-*.diff")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(patch.Diff); err != nil {
		return "", err
	}
	return f.Name(), nil
}
