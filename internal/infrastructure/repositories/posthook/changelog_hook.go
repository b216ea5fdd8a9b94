// Package posthook implements the default post-merge hook: recording every
// merge step just applied as a bullet under CHANGELOG.md's Unreleased /
// Changed section.
package posthook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const (
	changelogFileName = "CHANGELOG.md"
	commitMessage     = "chore: record merge history in changelog"
	filePermissions   = 0o644
)

// ChangelogHook implements repositories.PostMergeHook by inserting one
// bullet per merge commit into the repo's CHANGELOG.md, if one exists.
type ChangelogHook struct {
	driver repositories.VCSDriver
}

var _ repositories.PostMergeHook = (*ChangelogHook)(nil)

// NewChangelogHook constructs a ChangelogHook backed by the given driver.
func NewChangelogHook(driver repositories.VCSDriver) *ChangelogHook {
	return &ChangelogHook{driver: driver}
}

func (h *ChangelogHook) Run(ctx context.Context, repo string, mergeCount int) (string, error) {
	path := filepath.Join(repo, changelogFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debugf("no %s in %s, post-merge hook is a no-op", changelogFileName, repo)
		return "", nil
	}
	if err != nil {
		return "", err
	}

	logLines, err := h.mergeLogLines(ctx, repo, mergeCount)
	if err != nil {
		return "", err
	}

	updated := entities.RecordMergeBullets(string(data), logLines)
	if updated == string(data) {
		return "", nil
	}

	if writeErr := os.WriteFile(path, []byte(updated), filePermissions); writeErr != nil {
		return "", writeErr
	}
	if stageErr := h.driver.StageAll(ctx, repo); stageErr != nil {
		return "", stageErr
	}
	return commitMessage, nil
}

// mergeLogLines returns the raw "<sha> <message>" log lines for the merge
// steps just applied; formatting them into changelog bullets is
// entities.RecordMergeBullets's job, not this adapter's.
func (h *ChangelogHook) mergeLogLines(ctx context.Context, repo string, mergeCount int) ([]string, error) {
	if mergeCount <= 0 {
		return nil, nil
	}
	base := fmt.Sprintf("HEAD~%d", mergeCount)
	return h.driver.LogOnelineRange(ctx, repo, base, "HEAD")
}
