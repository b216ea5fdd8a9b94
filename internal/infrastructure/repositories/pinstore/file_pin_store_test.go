package pinstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/pinstore"
)

func newStore(t *testing.T) *pinstore.FilePinStore {
	t.Helper()
	root := t.TempDir()
	return pinstore.NewFilePinStore(filepath.Join(root, "pins"), filepath.Join(root, "clones"))
}

func TestFilePinStoreHead(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip a written HEAD", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)

		// when
		require.NoError(t, store.WriteHead("ccc", "abc123"))
		head, err := store.ReadHead("ccc")

		// then
		require.NoError(t, err)
		assert.Equal(t, "abc123", head)
	})

	t.Run("should fail to read a HEAD that was never pinned", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)

		// when
		_, err := store.ReadHead("ccc")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrStateMissing)
	})
}

func TestFilePinStoreManifest(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip a manifest with multiple steps", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		manifest := entities.Manifest{
			BaseSHA:       "base000",
			DefaultBranch: "main",
			Steps: []entities.ManifestStep{
				{SHA: "aaa111", Ref: "42"},
				{SHA: "bbb222", Ref: "feature/x"},
			},
		}

		// when
		require.NoError(t, store.WriteManifest("ccc", manifest))
		got, ok, err := store.ReadManifest("ccc")

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, manifest, got)
	})

	t.Run("should report no manifest pinned without error", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)

		// when
		_, ok, err := store.ReadManifest("ccc")

		// then
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFilePinStoreResolution(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip a resolution through the counted-resolution codec", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		res := entities.Resolution{Files: []entities.FileResolution{{
			Path: "file.txt",
			Records: []entities.ConflictRecord{{
				OursLines: 1, BaseLines: 1, TheirsLines: 1,
				Resolution: []string{"merged line"},
				SHA:        "deadbeef",
			}},
		}}}

		// when
		require.NoError(t, store.WriteResolution("ccc", 1, res))
		got, ok, err := store.ReadResolution("ccc", 1)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, res, got)
	})
}

func TestFilePinStoreLocalPatches(t *testing.T) {
	t.Parallel()

	t.Run("should list local patches in numeric filename order", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		require.NoError(t, store.WriteLocalPatch("ccc", entities.LocalPatch{Number: 2, Description: "second", Diff: "diff-2"}))
		require.NoError(t, store.WriteLocalPatch("ccc", entities.LocalPatch{Number: 1, Description: "first", Diff: "diff-1"}))

		// when
		patches, err := store.ListLocalPatches("ccc")

		// then
		require.NoError(t, err)
		require.Len(t, patches, 2)
		assert.Equal(t, 1, patches[0].Number)
		assert.Equal(t, 2, patches[1].Number)
	})

	t.Run("should remove only the named patch number", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		require.NoError(t, store.WriteLocalPatch("ccc", entities.LocalPatch{Number: 1, Description: "first", Diff: "diff-1"}))
		require.NoError(t, store.WriteLocalPatch("ccc", entities.LocalPatch{Number: 2, Description: "second", Diff: "diff-2"}))

		// when
		require.NoError(t, store.RemoveLocalPatch("ccc", 1))
		patches, err := store.ListLocalPatches("ccc")

		// then
		require.NoError(t, err)
		require.Len(t, patches, 1)
		assert.Equal(t, 2, patches[0].Number)
	})
}

func TestFilePinStoreOverride(t *testing.T) {
	t.Parallel()

	t.Run("should redirect pin and clone dirs to the staging override while active", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		staging := t.TempDir()

		// when
		store.SetOverride(staging)
		overriddenPinDir := store.PinDir("ccc")
		overriddenCloneDir := store.CloneDir("ccc")
		store.ClearOverride()
		clearedPinDir := store.PinDir("ccc")

		// then
		assert.Equal(t, filepath.Join(staging, "pins", "ccc"), overriddenPinDir)
		assert.Equal(t, filepath.Join(staging, "clones", "ccc"), overriddenCloneDir)
		assert.NotEqual(t, overriddenPinDir, clearedPinDir)
	})
}

func TestFilePinStoreRemoval(t *testing.T) {
	t.Parallel()

	t.Run("should remove every pin file for an entry", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		require.NoError(t, store.WriteHead("ccc", "abc123"))

		// when
		require.NoError(t, store.RemovePins("ccc"))
		_, err := store.ReadHead("ccc")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrStateMissing)
	})

	t.Run("should remove the clone directory", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		require.NoError(t, os.MkdirAll(store.CloneDir("ccc"), 0o755))

		// when
		require.NoError(t, store.RemoveClone("ccc"))

		// then
		_, statErr := os.Stat(store.CloneDir("ccc"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestFilePinStoreMergeCount(t *testing.T) {
	t.Parallel()

	t.Run("should return zero when no manifest is pinned", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)

		// when
		count, err := store.MergeCount("ccc")

		// then
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("should return the number of merge steps in the pinned manifest", func(t *testing.T) {
		t.Parallel()

		// given
		store := newStore(t)
		require.NoError(t, store.WriteManifest("ccc", entities.Manifest{
			BaseSHA: "base", DefaultBranch: "main",
			Steps: []entities.ManifestStep{{SHA: "a"}, {SHA: "b"}},
		}))

		// when
		count, err := store.MergeCount("ccc")

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
