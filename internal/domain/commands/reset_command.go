package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Reset is the interface for the reset lifecycle command (spec §4.9).
type Reset interface {
	Execute(ctx context.Context, name string) error
}

// ResetCommand composes Clean with pin removal.
type ResetCommand struct {
	pins  repositories.PinStore
	clean Clean
}

var _ Reset = (*ResetCommand)(nil)

// NewResetCommand constructs a ResetCommand.
func NewResetCommand(pins repositories.PinStore, clean Clean) *ResetCommand {
	return &ResetCommand{pins: pins, clean: clean}
}

func (c *ResetCommand) Execute(ctx context.Context, name string) error {
	if err := c.clean.Execute(ctx, name); err != nil {
		return err
	}
	if err := c.pins.RemovePins(name); err != nil {
		return err
	}
	logger.Infof("reset %s", name)
	return nil
}
