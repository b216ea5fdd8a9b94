package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Clean is the interface for the clean lifecycle command (spec §4.9).
type Clean interface {
	Execute(ctx context.Context, name string) error
}

// CleanCommand removes a live clone, after the status guard confirms it is
// safe to wipe.
type CleanCommand struct {
	entries repositories.EntryStore
	pins    repositories.PinStore
	status  Status
}

var _ Clean = (*CleanCommand)(nil)

// NewCleanCommand constructs a CleanCommand.
func NewCleanCommand(entries repositories.EntryStore, pins repositories.PinStore, status Status) *CleanCommand {
	return &CleanCommand{entries: entries, pins: pins, status: status}
}

func (c *CleanCommand) Execute(ctx context.Context, name string) error {
	entry, err := c.entries.Get(name)
	if err != nil {
		return err
	}
	st, statusErr := c.status.Execute(ctx, entry)
	if statusErr != nil {
		return statusErr
	}
	if !st.Clean {
		return fmt.Errorf("%w: %s", entities.ErrGuardFailed, st.Reason)
	}
	if removeErr := c.pins.RemoveClone(entry.Name); removeErr != nil {
		return removeErr
	}
	logger.Infof("cleaned %s", entry.Name)
	return nil
}
