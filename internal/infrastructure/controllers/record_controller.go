package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// RecordController binds the "record" subcommand.
type RecordController struct {
	command commands.Record
}

var _ entities.Controller = (*RecordController)(nil)

// NewRecordController constructs a RecordController.
func NewRecordController(command commands.Record) *RecordController {
	return &RecordController{command: command}
}

func (c *RecordController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "record <name> [refs...]",
		Short: "Record a fork by merging its configured refs",
		Long: `Clone the entry's upstream, merge each configured ref in sequence,
resolve any conflicts tier by tier, and pin the resulting manifest and HEAD.`,
	}
}

func (c *RecordController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("record requires a name argument")
		return
	}
	opts := entities.RecordOptions{Name: args[0], Refs: args[1:]}
	if err := c.command.Execute(context.Background(), opts); err != nil {
		logger.Errorf("record %s: %v", opts.Name, err)
	}
}
