//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/test/repositorydoubles"
)

type fakeClean struct {
	calls []string
	err   error
}

func (f *fakeClean) Execute(_ context.Context, name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func TestResetCommand(t *testing.T) {
	t.Parallel()

	t.Run("should clean then remove every pin for the entry", func(t *testing.T) {
		t.Parallel()

		// given
		pins := repositorydoubles.NewStubPinStore()
		require.NoError(t, pins.WriteHead("ccc", "aaaa"))
		require.NoError(t, pins.WriteResolution("ccc", 1, entities.Resolution{}))
		clean := &fakeClean{}
		cmd := commands.NewResetCommand(pins, clean)

		// when
		err := cmd.Execute(context.Background(), "ccc")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"ccc"}, clean.calls)
		_, headErr := pins.ReadHead("ccc")
		assert.Error(t, headErr)
	})

	t.Run("should not remove pins when the clean guard fails", func(t *testing.T) {
		t.Parallel()

		// given
		pins := repositorydoubles.NewStubPinStore()
		require.NoError(t, pins.WriteHead("ccc", "aaaa"))
		clean := &fakeClean{err: assert.AnError}
		cmd := commands.NewResetCommand(pins, clean)

		// when
		err := cmd.Execute(context.Background(), "ccc")

		// then
		require.Error(t, err)
		head, headErr := pins.ReadHead("ccc")
		require.NoError(t, headErr)
		assert.Equal(t, "aaaa", head)
	})
}
