//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/test/repositorydoubles"
)

type fakeReplay struct {
	calls []string
	errs  map[string]error
}

func (f *fakeReplay) Execute(_ context.Context, opts entities.ReplayOptions) error {
	f.calls = append(f.calls, opts.Name)
	return f.errs[opts.Name]
}

func TestStatusAllCommand(t *testing.T) {
	t.Parallel()

	t.Run("should report every entry and OR their dirtiness", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa", Refs: []string{"abc1234"}},
			"bbb": {Name: "bbb", Refs: []string{"def5678"}},
		}}
		pins := repositorydoubles.NewStubPinStore()
		vcs := &repositorydoubles.SpyVCSDriver{}
		cmd := commands.NewStatusAllCommand(entries, commands.NewStatusCommand(pins, vcs))

		// when
		results, anyDirty := cmd.Execute(context.Background())

		// then
		require.Len(t, results, 2)
		assert.False(t, anyDirty)
		for _, r := range results {
			assert.True(t, r.Status.Clean)
			assert.NoError(t, r.Err)
		}
	})

	t.Run("should count a lookup error as dirty", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa", Refs: []string{"abc1234"}},
		}}
		pins := repositorydoubles.NewStubPinStore()
		pins.CloneRoot = t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(pins.CloneRoot, "aaa"), 0o755))
		vcs := &repositorydoubles.SpyVCSDriver{RevParseErr: fmt.Errorf("boom")}
		require.NoError(t, pins.WriteHead("aaa", "aaaa"))
		cmd := commands.NewStatusAllCommand(entries, commands.NewStatusCommand(pins, vcs))

		// when
		results, anyDirty := cmd.Execute(context.Background())

		// then
		require.Len(t, results, 1)
		assert.True(t, anyDirty)
		assert.Error(t, results[0].Err)
	})
}

func TestCleanAllCommand(t *testing.T) {
	t.Parallel()

	t.Run("should clean every configured entry", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa"},
			"bbb": {Name: "bbb"},
		}}
		clean := &fakeClean{}
		cmd := commands.NewCleanAllCommand(entries, clean)

		// when
		err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"aaa", "bbb"}, clean.calls)
	})

	t.Run("should continue past a failing entry and return the first error", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa"},
			"bbb": {Name: "bbb"},
		}}
		clean := &fakeClean{err: assert.AnError}
		cmd := commands.NewCleanAllCommand(entries, clean)

		// when
		err := cmd.Execute(context.Background())

		// then
		require.Error(t, err)
		assert.Len(t, clean.calls, 2)
	})
}

func TestReplayAllCommand(t *testing.T) {
	t.Parallel()

	t.Run("should replay every configured entry", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa"},
			"bbb": {Name: "bbb"},
		}}
		replay := &fakeReplay{errs: map[string]error{}}
		cmd := commands.NewReplayAllCommand(entries, replay)

		// when
		err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"aaa", "bbb"}, replay.calls)
	})

	t.Run("should continue past a failing entry and return the first error", func(t *testing.T) {
		t.Parallel()

		// given
		entries := &repositorydoubles.StubEntryStore{Entries: map[string]entities.Entry{
			"aaa": {Name: "aaa"},
			"bbb": {Name: "bbb"},
		}}
		replay := &fakeReplay{errs: map[string]error{"aaa": assert.AnError}}
		cmd := commands.NewReplayAllCommand(entries, replay)

		// when
		err := cmd.Execute(context.Background())

		// then
		require.Error(t, err)
		assert.Len(t, replay.calls, 2)
	})
}
