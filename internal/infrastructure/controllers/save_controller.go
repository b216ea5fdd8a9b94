package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// SaveController binds the "save" subcommand.
type SaveController struct {
	command commands.Save
}

var _ entities.Controller = (*SaveController)(nil)

// NewSaveController constructs a SaveController.
func NewSaveController(command commands.Save) *SaveController {
	return &SaveController{command: command}
}

func (c *SaveController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "save <name> [desc]",
		Short: "Capture worktree changes as a new local patch",
		Long:  `Stage every change on wip against the pinned HEAD, write it as a local-NNN patch, and rebuild HEAD from the replayed patch sequence.`,
	}
}

func (c *SaveController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("save requires a name argument")
		return
	}
	opts := entities.SaveOptions{Name: args[0]}
	if len(args) > 1 {
		opts.Desc = args[1]
	}
	if err := c.command.Execute(context.Background(), opts); err != nil {
		logger.Errorf("save %s: %v", opts.Name, err)
	}
}
