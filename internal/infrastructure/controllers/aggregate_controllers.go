package controllers

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

// StatusAllController binds the "status-all" subcommand.
type StatusAllController struct {
	command commands.StatusAll
}

var _ entities.Controller = (*StatusAllController)(nil)

// NewStatusAllController constructs a StatusAllController.
func NewStatusAllController(command commands.StatusAll) *StatusAllController {
	return &StatusAllController{command: command}
}

func (c *StatusAllController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "status-all",
		Short: "Report status for every configured entry",
		Long:  `Run the status predicate for every entry; exit 1 if any entry is dirty, 0 otherwise.`,
	}
}

func (c *StatusAllController) Execute(cmd *cobra.Command, _ []string) {
	results, anyDirty := c.command.Execute(context.Background())
	for _, r := range results {
		if r.Err != nil {
			logger.Errorf("%s: %v", r.Name, r.Err)
			continue
		}
		if r.Status.Clean {
			logger.Infof("%s: clean", r.Name)
		} else {
			logger.Warnf("%s: dirty — %s", r.Name, r.Status.Reason)
		}
	}
	if anyDirty {
		os.Exit(1)
	}
}

// CleanAllController binds the "clean-all" subcommand.
type CleanAllController struct {
	command commands.CleanAll
}

var _ entities.Controller = (*CleanAllController)(nil)

// NewCleanAllController constructs a CleanAllController.
func NewCleanAllController(command commands.CleanAll) *CleanAllController {
	return &CleanAllController{command: command}
}

func (c *CleanAllController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "clean-all",
		Short: "Clean every configured entry",
		Long:  `Run clean for every configured entry, continuing past individual failures.`,
	}
}

func (c *CleanAllController) Execute(cmd *cobra.Command, _ []string) {
	if err := c.command.Execute(context.Background()); err != nil {
		logger.Errorf("clean-all: %v", err)
	}
}

// ReplayAllController binds the "replay-all" subcommand.
type ReplayAllController struct {
	command commands.ReplayAll
}

var _ entities.Controller = (*ReplayAllController)(nil)

// NewReplayAllController constructs a ReplayAllController.
func NewReplayAllController(command commands.ReplayAll) *ReplayAllController {
	return &ReplayAllController{command: command}
}

func (c *ReplayAllController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "replay-all",
		Short: "Replay every configured entry",
		Long:  `Run replay for every configured entry, continuing past individual failures.`,
	}
}

func (c *ReplayAllController) Execute(cmd *cobra.Command, _ []string) {
	if err := c.command.Execute(context.Background()); err != nil {
		logger.Errorf("replay-all: %v", err)
	}
}
