package controllers

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// StatusController binds the "status" subcommand.
type StatusController struct {
	entries repositories.EntryStore
	status  commands.Status
}

var _ entities.Controller = (*StatusController)(nil)

// NewStatusController constructs a StatusController.
func NewStatusController(entries repositories.EntryStore, status commands.Status) *StatusController {
	return &StatusController{entries: entries, status: status}
}

func (c *StatusController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "status <name>",
		Short: "Report whether a clone is safe to wipe",
		Long:  `Exit 0 if the clone matches its pinned HEAD with no divergent worktree, index, untracked, or stashed state; exit 1 otherwise.`,
	}
}

func (c *StatusController) Execute(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		logger.Errorf("status requires a name argument")
		os.Exit(1)
		return
	}
	entry, err := c.entries.Get(args[0])
	if err != nil {
		logger.Errorf("status %s: %v", args[0], err)
		os.Exit(1)
		return
	}
	st, err := c.status.Execute(context.Background(), entry)
	if err != nil {
		logger.Errorf("status %s: %v", args[0], err)
		os.Exit(1)
		return
	}
	if st.Clean {
		logger.Infof("%s: clean", args[0])
		return
	}
	logger.Warnf("%s: dirty — %s", args[0], st.Reason)
	os.Exit(1)
}
