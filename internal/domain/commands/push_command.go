package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Push is the interface for the push lifecycle command (spec §4.9).
type Push interface {
	Execute(ctx context.Context, opts entities.PushOptions) error
}

// PushCommand cherry-picks the local commits on wip onto a PR branch.
type PushCommand struct {
	entries repositories.EntryStore
	pins    repositories.PinStore
	vcs     repositories.VCSDriver
}

var _ Push = (*PushCommand)(nil)

// NewPushCommand constructs a PushCommand.
func NewPushCommand(entries repositories.EntryStore, pins repositories.PinStore, vcs repositories.VCSDriver) *PushCommand {
	return &PushCommand{entries: entries, pins: pins, vcs: vcs}
}

func (c *PushCommand) Execute(ctx context.Context, opts entities.PushOptions) error {
	entry, err := c.entries.Get(opts.Name)
	if err != nil {
		return err
	}
	repo := c.pins.CloneDir(entry.Name)

	branch, branchErr := c.vcs.CurrentBranch(ctx, repo)
	if branchErr != nil {
		return branchErr
	}
	if branch != wipBranch {
		return fmt.Errorf("%w: current branch is %q, expected %q", entities.ErrGuardFailed, branch, wipBranch)
	}

	pinnedHead, headErr := c.pins.ReadHead(entry.Name)
	if headErr != nil {
		return headErr
	}

	target := opts.Target
	if target == "" {
		target, err = c.lastPRBranch(ctx, repo)
		if err != nil {
			return err
		}
	}

	if checkoutErr := c.vcs.Checkout(ctx, repo, target); checkoutErr != nil {
		return checkoutErr
	}

	outcome, pickErr := c.vcs.CherryPickRange(ctx, repo, pinnedHead, wipBranch, nil)
	if pickErr != nil {
		return pickErr
	}
	if outcome == repositories.MergeConflicted {
		logger.Errorf(
			"cherry-pick of %s..%s onto %s stopped with conflicts; resolve them, run `git cherry-pick --continue`, then push %s manually",
			pinnedHead, wipBranch, target, target,
		)
		return fmt.Errorf("%w: cherry-pick %s..%s onto %s left conflicts", entities.ErrVCS, pinnedHead, wipBranch, target)
	}

	logger.Infof("pushed %s onto %s", entry.Name, target)
	return nil
}

// lastPRBranch returns the lexicographically last local branch named
// pr-<N>, the convention FetchPR creates each PR ref under.
func (c *PushCommand) lastPRBranch(ctx context.Context, repo string) (string, error) {
	branches, err := c.vcs.ListBranches(ctx, repo)
	if err != nil {
		return "", err
	}
	var prBranches []string
	for _, b := range branches {
		if strings.HasPrefix(b, "pr-") {
			prBranches = append(prBranches, b)
		}
	}
	if len(prBranches) == 0 {
		return "", fmt.Errorf("%w: no target given and no pr-* branch found", entities.ErrStateMissing)
	}
	sort.Strings(prBranches)
	return prBranches[len(prBranches)-1], nil
}
