package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// CleanController binds the "clean" subcommand.
type CleanController struct {
	command commands.Clean
}

var _ entities.Controller = (*CleanController)(nil)

// NewCleanController constructs a CleanController.
func NewCleanController(command commands.Clean) *CleanController {
	return &CleanController{command: command}
}

func (c *CleanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "clean <name>",
		Short: "Remove a clone after the status guard allows it",
		Long:  `Run the status predicate, refusing if the clone diverges from its pin, then remove the clone directory.`,
	}
}

func (c *CleanController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("clean requires a name argument")
		return
	}
	if err := c.command.Execute(context.Background(), args[0]); err != nil {
		logger.Errorf("clean %s: %v", args[0], err)
	}
}
