package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// ResetController binds the "reset" subcommand.
type ResetController struct {
	command commands.Reset
}

var _ entities.Controller = (*ResetController)(nil)

// NewResetController constructs a ResetController.
func NewResetController(command commands.Reset) *ResetController {
	return &ResetController{command: command}
}

func (c *ResetController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "reset <name>",
		Short: "Clean a clone and remove its pins",
		Long:  `Run clean, then remove the HEAD, manifest, resolution, and local-patch pins, returning the entry to an unrecorded state.`,
	}
}

func (c *ResetController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("reset requires a name argument")
		return
	}
	if err := c.command.Execute(context.Background(), args[0]); err != nil {
		logger.Errorf("reset %s: %v", args[0], err)
	}
}
