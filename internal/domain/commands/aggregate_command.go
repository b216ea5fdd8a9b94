package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// StatusAll is the interface for the status-all aggregate (spec §4.9, §6).
type StatusAll interface {
	Execute(ctx context.Context) ([]entities.EntryStatus, bool)
}

// CleanAll is the interface for the clean-all aggregate.
type CleanAll interface {
	Execute(ctx context.Context) error
}

// ReplayAll is the interface for the replay-all aggregate.
type ReplayAll interface {
	Execute(ctx context.Context) error
}

// StatusAllCommand runs Status across every configured entry.
type StatusAllCommand struct {
	entries repositories.EntryStore
	status  Status
}

var _ StatusAll = (*StatusAllCommand)(nil)

// NewStatusAllCommand constructs a StatusAllCommand.
func NewStatusAllCommand(entries repositories.EntryStore, status Status) *StatusAllCommand {
	return &StatusAllCommand{entries: entries, status: status}
}

// Execute returns one EntryStatus per configured entry and an overall dirty
// flag that is the logical OR of every entry's dirtiness (an entry whose
// status lookup errored counts as dirty).
func (c *StatusAllCommand) Execute(ctx context.Context) ([]entities.EntryStatus, bool) {
	names := c.entries.AllNames()
	results := make([]entities.EntryStatus, 0, len(names))
	anyDirty := false

	for _, name := range names {
		entry, err := c.entries.Get(name)
		if err != nil {
			results = append(results, entities.EntryStatus{Name: name, Err: err})
			anyDirty = true
			continue
		}
		st, statusErr := c.status.Execute(ctx, entry)
		if statusErr != nil {
			results = append(results, entities.EntryStatus{Name: name, Err: statusErr})
			anyDirty = true
			continue
		}
		results = append(results, entities.EntryStatus{Name: name, Status: st})
		if !st.Clean {
			anyDirty = true
		}
	}

	return results, anyDirty
}

// CleanAllCommand runs Clean across every configured entry, continuing past
// individual failures and returning the first encountered.
type CleanAllCommand struct {
	entries repositories.EntryStore
	clean   Clean
}

var _ CleanAll = (*CleanAllCommand)(nil)

// NewCleanAllCommand constructs a CleanAllCommand.
func NewCleanAllCommand(entries repositories.EntryStore, clean Clean) *CleanAllCommand {
	return &CleanAllCommand{entries: entries, clean: clean}
}

func (c *CleanAllCommand) Execute(ctx context.Context) error {
	var firstErr error
	for _, name := range c.entries.AllNames() {
		if err := c.clean.Execute(ctx, name); err != nil {
			logger.Errorf("clean %s: %v", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ReplayAllCommand runs Replay across every configured entry, continuing
// past individual failures and returning the first encountered.
type ReplayAllCommand struct {
	entries repositories.EntryStore
	replay  Replay
}

var _ ReplayAll = (*ReplayAllCommand)(nil)

// NewReplayAllCommand constructs a ReplayAllCommand.
func NewReplayAllCommand(entries repositories.EntryStore, replay Replay) *ReplayAllCommand {
	return &ReplayAllCommand{entries: entries, replay: replay}
}

func (c *ReplayAllCommand) Execute(ctx context.Context) error {
	var firstErr error
	for _, name := range c.entries.AllNames() {
		if err := c.replay.Execute(ctx, entities.ReplayOptions{Name: name}); err != nil {
			logger.Errorf("replay %s: %v", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
