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
	"github.com/kdevan/forkpin/test/repositorydoubles"
)

func TestCleanCommand(t *testing.T) {
	t.Parallel()

	t.Run("should remove the clone when the status guard reports clean", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		pins := repositorydoubles.NewStubPinStore()
		pins.CloneRoot = filepath.Join(root, "clones")
		require.NoError(t, os.MkdirAll(pins.CloneDir("ccc"), 0o755))
		require.NoError(t, pins.WriteHead("ccc", "aaaa"))
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"ccc": {Name: "ccc", Refs: []string{"abc1234"}},
		}}
		vcs := &repositorydoubles.SpyVCSDriver{RevParseResult: "aaaa", DiffQuietResult: true}
		cmd := commands.NewCleanCommand(entries, pins, commands.NewStatusCommand(pins, vcs))

		// when
		err := cmd.Execute(context.Background(), "ccc")

		// then
		require.NoError(t, err)
	})

	t.Run("should refuse to clean a dirty clone", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		pins := repositorydoubles.NewStubPinStore()
		pins.CloneRoot = filepath.Join(root, "clones")
		require.NoError(t, os.MkdirAll(pins.CloneDir("ccc"), 0o755))
		require.NoError(t, pins.WriteHead("ccc", "aaaa"))
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"ccc": {Name: "ccc", Refs: []string{"abc1234"}},
		}}
		vcs := &repositorydoubles.SpyVCSDriver{RevParseResult: "bbbb"}
		cmd := commands.NewCleanCommand(entries, pins, commands.NewStatusCommand(pins, vcs))

		// when
		err := cmd.Execute(context.Background(), "ccc")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrGuardFailed)
	})
}
