package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// ReplayController binds the "replay" subcommand.
type ReplayController struct {
	command commands.Replay
}

var _ entities.Controller = (*ReplayController)(nil)

// NewReplayController constructs a ReplayController.
func NewReplayController(command commands.Replay) *ReplayController {
	return &ReplayController{command: command}
}

func (c *ReplayController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "replay <name>",
		Short: "Reproduce a recorded fork deterministically",
		Long:  `Clone the entry's upstream and reproduce the pinned manifest offline, asserting the resulting HEAD matches the pin.`,
	}
}

func (c *ReplayController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("replay requires a name argument")
		return
	}
	if err := c.command.Execute(context.Background(), entities.ReplayOptions{Name: args[0]}); err != nil {
		logger.Errorf("replay %s: %v", args[0], err)
	}
}
