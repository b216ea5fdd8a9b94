//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
	"github.com/kdevan/forkpin/test/repositorydoubles"
)

func newReplayFixture(t *testing.T) (
	*repositorydoubles.StubEntryStore,
	*repositorydoubles.StubPinStore,
	*repositorydoubles.SpyVCSDriver,
	*repositorydoubles.SpyPostMergeHook,
) {
	t.Helper()
	root := t.TempDir()
	pins := repositorydoubles.NewStubPinStore()
	pins.PinRoot = filepath.Join(root, "pins")
	pins.CloneRoot = filepath.Join(root, "clones")
	require.NoError(t, os.MkdirAll(pins.PinRoot, 0o755))
	require.NoError(t, os.MkdirAll(pins.CloneRoot, 0o755))

	entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
		"ccc": {
			Name:        "ccc",
			UpstreamURL: "https://example.test/upstream/ccc.git",
			Refs:        []string{"abc1234"},
		},
		"ref-only": {
			Name:        "ref-only",
			UpstreamURL: "https://example.test/upstream/ref-only.git",
		},
	}}
	vcs := &repositorydoubles.SpyVCSDriver{CurrentBranchResult: "main"}
	hook := &repositorydoubles.SpyPostMergeHook{}
	return entries, pins, vcs, hook
}

func TestReplayCommand(t *testing.T) {
	t.Parallel()

	t.Run("should no-op when a clone already exists", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		require.NoError(t, os.MkdirAll(pins.CloneDir("ccc"), 0o755))
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.NoError(t, err)
		assert.Empty(t, vcs.ClonedURLs)
	})

	t.Run("should shallow-clone a reference-only entry with no manifest", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ref-only"})

		// then
		require.NoError(t, err)
		assert.Len(t, vcs.ClonedURLs, 1)
		_, hasManifest, _ := pins.ReadManifest("ref-only")
		assert.False(t, hasManifest)
	})

	t.Run("should refuse to replay an entry with refs but no pinned manifest", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.NoError(t, err)
		assert.Empty(t, vcs.ClonedURLs)
	})

	t.Run("should replay a pinned manifest and match the recorded HEAD", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		require.NoError(t, pins.WriteManifest("ccc", entities.Manifest{
			BaseSHA:       "base000",
			DefaultBranch: "main",
			Steps:         []entities.ManifestStep{{SHA: "abc1234", Ref: "abc1234"}},
		}))
		require.NoError(t, pins.WriteHead("ccc", "finalhead"))
		vcs.MergeResult = repositories.MergeOk
		vcs.RevParseResult = "finalhead"
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.NoError(t, err)
		assert.Len(t, vcs.ClonedURLs, 1)
	})

	t.Run("should fail when the replayed HEAD does not match the pin", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		require.NoError(t, pins.WriteManifest("ccc", entities.Manifest{
			BaseSHA: "base000", DefaultBranch: "main",
			Steps: []entities.ManifestStep{{SHA: "abc1234", Ref: "abc1234"}},
		}))
		require.NoError(t, pins.WriteHead("ccc", "expectedhead"))
		vcs.MergeResult = repositories.MergeOk
		vcs.RevParseResult = "differenthead"
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrHeadMismatch)
	})

	t.Run("should reapply a pinned resolution on a conflicted merge step", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		require.NoError(t, pins.WriteManifest("ccc", entities.Manifest{
			BaseSHA: "base000", DefaultBranch: "main",
			Steps: []entities.ManifestStep{{SHA: "abc1234", Ref: "abc1234"}},
		}))
		require.NoError(t, pins.WriteResolution("ccc", 1, entities.Resolution{
			Files: []entities.FileResolution{{
				Path: "file.txt",
				Records: []entities.ConflictRecord{{
					OursLines: 1, BaseLines: 1, TheirsLines: 1,
					Resolution: []string{"final line"},
				}},
			}},
		}))
		require.NoError(t, pins.WriteHead("ccc", "finalhead"))
		vcs.ConflictFiles = map[string]string{
			"file.txt": "<<<<<<< OURS\nours line\n||||||| BASE\nbase line\n=======\ntheirs line\n>>>>>>> THEIRS\n",
		}
		vcs.MergeOutcomes = []repositories.MergeOutcome{repositories.MergeConflicted}
		vcs.RevParseResult = "finalhead"
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.NoError(t, err)
	})

	t.Run("should fail a conflicted replay step with no pinned resolution", func(t *testing.T) {
		t.Parallel()

		// given
		entries, pins, vcs, hook := newReplayFixture(t)
		require.NoError(t, pins.WriteManifest("ccc", entities.Manifest{
			BaseSHA: "base000", DefaultBranch: "main",
			Steps: []entities.ManifestStep{{SHA: "abc1234", Ref: "abc1234"}},
		}))
		require.NoError(t, pins.WriteHead("ccc", "finalhead"))
		vcs.MergeOutcomes = []repositories.MergeOutcome{repositories.MergeConflicted}
		cmd := commands.NewReplayCommand(entries, pins, vcs, hook)

		// when
		err := cmd.Execute(context.Background(), entities.ReplayOptions{Name: "ccc"})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrResolutionFormat)
	})
}
