package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// PushController binds the "push" subcommand.
type PushController struct {
	command commands.Push
}

var _ entities.Controller = (*PushController)(nil)

// NewPushController constructs a PushController.
func NewPushController(command commands.Push) *PushController {
	return &PushController{command: command}
}

func (c *PushController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "push <name> [target]",
		Short: "Cherry-pick wip's local commits onto a PR branch",
		Long:  `Checkout the target branch (or the lexicographically last pr-* branch) and cherry-pick every commit from the pinned HEAD through wip.`,
	}
}

func (c *PushController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("push requires a name argument")
		return
	}
	opts := entities.PushOptions{Name: args[0]}
	if len(args) > 1 {
		opts.Target = args[1]
	}
	if err := c.command.Execute(context.Background(), opts); err != nil {
		logger.Errorf("push %s: %v", opts.Name, err)
	}
}
