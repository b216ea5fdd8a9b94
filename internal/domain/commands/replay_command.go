package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/codec"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// Replay is the interface for the replay engine (spec §4.7).
type Replay interface {
	Execute(ctx context.Context, opts entities.ReplayOptions) error
}

// ReplayCommand reproduces a recorded clone deterministically, offline
// except for fetches, never calling the advisor.
type ReplayCommand struct {
	entries repositories.EntryStore
	pins    repositories.PinStore
	vcs     repositories.VCSDriver
	hook    repositories.PostMergeHook
}

var _ Replay = (*ReplayCommand)(nil)

// NewReplayCommand constructs a ReplayCommand.
func NewReplayCommand(
	entries repositories.EntryStore, pins repositories.PinStore, vcs repositories.VCSDriver, hook repositories.PostMergeHook,
) *ReplayCommand {
	return &ReplayCommand{entries: entries, pins: pins, vcs: vcs, hook: hook}
}

func (c *ReplayCommand) Execute(ctx context.Context, opts entities.ReplayOptions) error {
	entry, err := c.entries.Get(opts.Name)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(c.pins.CloneDir(entry.Name)); statErr == nil {
		logger.Infof("%s already has a clone, replay is a no-op", entry.Name)
		return nil
	}

	manifest, hasManifest, manifestErr := c.pins.ReadManifest(entry.Name)
	if manifestErr != nil {
		return manifestErr
	}

	if !hasManifest {
		if !entry.IsReferenceOnly() {
			logger.Warnf("%s has refs configured but no manifest pin; this state is invalid for replay", entry.Name)
			return nil
		}
		return c.shallowReplay(ctx, entry)
	}

	pinned, pinnedErr := c.readPinnedState(entry.Name, manifest)
	if pinnedErr != nil {
		return pinnedErr
	}
	return c.fullReplay(ctx, entry, manifest, pinned)
}

// pinnedReplayState is every piece of already-committed pin data fullReplay
// needs, read from the real pin root before beginStaging redirects PinDir
// to a freshly-created, still-empty staging directory: reading any of this
// through c.pins after staging begins would silently see nothing pinned.
type pinnedReplayState struct {
	head        string
	resolutions map[int]entities.Resolution
	patches     []entities.LocalPatch
}

func (c *ReplayCommand) readPinnedState(name string, manifest entities.Manifest) (pinnedReplayState, error) {
	head, headErr := c.pins.ReadHead(name)
	if headErr != nil {
		return pinnedReplayState{}, headErr
	}

	resolutions := make(map[int]entities.Resolution, len(manifest.Steps))
	for i := range manifest.Steps {
		stepIndex := i + 1
		res, ok, resErr := c.pins.ReadResolution(name, stepIndex)
		if resErr != nil {
			return pinnedReplayState{}, resErr
		}
		if ok {
			resolutions[stepIndex] = res
		}
	}

	patches, patchErr := c.pins.ListLocalPatches(name)
	if patchErr != nil {
		return pinnedReplayState{}, patchErr
	}

	return pinnedReplayState{head: head, resolutions: resolutions, patches: patches}, nil
}

func (c *ReplayCommand) shallowReplay(ctx context.Context, entry entities.Entry) (err error) {
	staging, stageErr := beginStaging(c.pins, entry.Name)
	if stageErr != nil {
		return stageErr
	}
	defer func() {
		if err != nil {
			staging.abort()
		}
	}()

	repo := staging.cloneDir()
	if cloneErr := c.vcs.Clone(ctx, entry.UpstreamURL, repo, true); cloneErr != nil {
		err = cloneErr
		return err
	}
	if entry.ForkURL != "" {
		if remoteErr := c.vcs.AddRemote(ctx, repo, forkRemoteName, entry.ForkURL); remoteErr != nil {
			err = remoteErr
			return err
		}
	}
	err = staging.commit()
	return err
}

func (c *ReplayCommand) fullReplay(
	ctx context.Context, entry entities.Entry, manifest entities.Manifest, pinned pinnedReplayState,
) (err error) {
	staging, stageErr := beginStaging(c.pins, entry.Name)
	if stageErr != nil {
		return stageErr
	}
	defer func() {
		if err != nil {
			staging.abort()
		}
	}()

	repo := staging.cloneDir()
	if cloneErr := c.vcs.Clone(ctx, entry.UpstreamURL, repo, true); cloneErr != nil {
		err = cloneErr
		return err
	}
	if optErr := c.vcs.SetOption(ctx, repo, diff3ConfigKey, diff3ConfigValue); optErr != nil {
		err = optErr
		return err
	}
	if optErr := c.vcs.SetOption(ctx, repo, abbrevConfigKey, abbrevConfigValue); optErr != nil {
		err = optErr
		return err
	}
	if checkoutErr := c.vcs.Checkout(ctx, repo, manifest.BaseSHA); checkoutErr != nil {
		err = checkoutErr
		return err
	}
	if createErr := c.vcs.CreateBranch(ctx, repo, wipBranch); createErr != nil {
		err = createErr
		return err
	}

	for i, step := range manifest.Steps {
		stepIndex := i + 1
		identity := entities.MergeStepIdentity(stepIndex)

		// Fetch by the pinned SHA, not by re-resolving step.Ref: replay must
		// reproduce the exact commit merged at record time even if the
		// upstream ref has since moved or been deleted.
		if fetchErr := c.vcs.FetchSHA(ctx, repo, step.SHA, 0); fetchErr != nil {
			err = fetchErr
			return err
		}

		message := fmt.Sprintf("Merge %s into wip", step.Ref)
		outcome, mergeErr := c.vcs.MergeNoFF(ctx, repo, step.SHA, message, identity.Env())
		if mergeErr != nil {
			err = mergeErr
			return err
		}
		if outcome == repositories.MergeOk {
			continue
		}

		res, ok := pinned.resolutions[stepIndex]
		if !ok {
			err = fmt.Errorf(
				"%w: merge step %d conflicted but no res-%d.resolution is pinned; re-record",
				entities.ErrResolutionFormat, stepIndex, stepIndex,
			)
			return err
		}
		if applyErr := c.applyResolution(ctx, repo, res); applyErr != nil {
			err = applyErr
			return err
		}
		if msgErr := c.vcs.WriteMergeMsg(ctx, repo, message); msgErr != nil {
			err = msgErr
			return err
		}
		if contErr := c.vcs.MergeContinueNoEdit(ctx, repo, identity.Env()); contErr != nil {
			err = contErr
			return err
		}
	}

	mergeCount := manifest.MergeCount()
	hookMessage, hookErr := c.hook.Run(ctx, repo, mergeCount)
	if hookErr != nil {
		err = hookErr
		return err
	}
	if hookMessage != "" {
		hookIdentity := entities.PostMergeHookIdentity(mergeCount)
		if commitErr := c.vcs.Commit(ctx, repo, hookMessage, hookIdentity.Env()); commitErr != nil {
			err = commitErr
			return err
		}
	}

	if applyErr := applyLocalPatches(ctx, c.vcs, repo, pinned.patches, mergeCount); applyErr != nil {
		err = applyErr
		return err
	}

	actualHead, revErr := c.vcs.RevParse(ctx, repo, "HEAD")
	if revErr != nil {
		err = revErr
		return err
	}
	if actualHead != pinned.head {
		err = fmt.Errorf(
			"%w: replayed HEAD %s does not match pinned %s; re-record", entities.ErrHeadMismatch, actualHead, pinned.head,
		)
		return err
	}

	if entry.ForkURL != "" {
		if remoteErr := c.vcs.AddRemote(ctx, repo, forkRemoteName, entry.ForkURL); remoteErr != nil {
			err = remoteErr
			return err
		}
	}

	err = staging.commit()
	if err == nil {
		logger.Infof("replayed %s at %s", entry.Name, actualHead)
	}
	return err
}

// applyResolution splits a pinned res-K.resolution by its "--- path"
// blocks and applies each positionally to the corresponding conflicted
// working-tree file.
func (c *ReplayCommand) applyResolution(ctx context.Context, repo string, res entities.Resolution) error {
	for _, fr := range res.Files {
		full := filepath.Join(repo, fr.Path)
		conflicted, readErr := os.ReadFile(full)
		if readErr != nil {
			return readErr
		}
		resolved, applyErr := codec.Apply(fr.Records, string(conflicted))
		if applyErr != nil {
			return applyErr
		}
		if strings.Contains(resolved, "<<<<<<<") {
			return fmt.Errorf("%w: %s still contains conflict markers after apply", entities.ErrResolutionFormat, fr.Path)
		}
		if writeErr := os.WriteFile(full, []byte(resolved), 0o644); writeErr != nil {
			return writeErr
		}
	}
	return c.vcs.StageAll(ctx, repo)
}
