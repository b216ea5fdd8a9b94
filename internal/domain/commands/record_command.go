package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const (
	diff3ConfigKey    = "merge.conflictstyle"
	diff3ConfigValue  = "diff3"
	abbrevConfigKey   = "core.abbrev"
	abbrevConfigValue = "40"
	wipBranch         = "wip"
	forkRemoteName    = "fork"
)

// Record is the interface for the record engine (spec §4.6).
type Record interface {
	Execute(ctx context.Context, opts entities.RecordOptions) error
}

// RecordCommand orchestrates staging clone, base checkout, merge-by-SHA
// loop, resolver invocation, post-merge hook, local-patch replay, HEAD
// write, and atomic swap.
type RecordCommand struct {
	entries  repositories.EntryStore
	pins     repositories.PinStore
	vcs      repositories.VCSDriver
	resolver repositories.ConflictResolver
	hook     repositories.PostMergeHook
	status   Status
}

var _ Record = (*RecordCommand)(nil)

// NewRecordCommand constructs a RecordCommand.
func NewRecordCommand(
	entries repositories.EntryStore,
	pins repositories.PinStore,
	vcs repositories.VCSDriver,
	resolver repositories.ConflictResolver,
	hook repositories.PostMergeHook,
	status Status,
) *RecordCommand {
	return &RecordCommand{entries: entries, pins: pins, vcs: vcs, resolver: resolver, hook: hook, status: status}
}

func (c *RecordCommand) Execute(ctx context.Context, opts entities.RecordOptions) error {
	entry, err := c.entries.Get(opts.Name)
	if err != nil {
		return err
	}
	if len(opts.Refs) > 0 {
		entry.Refs = opts.Refs
	}

	st, statusErr := c.status.Execute(ctx, entry)
	if statusErr != nil {
		return statusErr
	}
	if !st.Clean {
		return fmt.Errorf("%w: %s — run `push` and restore the pinned HEAD on wip first", entities.ErrGuardFailed, st.Reason)
	}

	preservedPatches, _ := c.pins.ListLocalPatches(entry.Name)
	preservedResolutions := c.preserveResolutions(entry.Name)

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

	defaultBranch, branchErr := c.vcs.CurrentBranch(ctx, repo)
	if branchErr != nil {
		err = branchErr
		return err
	}
	baseSHA, revErr := c.vcs.RevParse(ctx, repo, "HEAD")
	if revErr != nil {
		err = revErr
		return err
	}
	if createErr := c.vcs.CreateBranch(ctx, repo, wipBranch); createErr != nil {
		err = createErr
		return err
	}

	manifest := entities.Manifest{BaseSHA: baseSHA, DefaultBranch: defaultBranch}

	for i, ref := range entry.Refs {
		stepIndex := i + 1
		identity := entities.MergeStepIdentity(stepIndex)

		sha, fetchErr := fetchRef(ctx, c.vcs, repo, ref)
		if fetchErr != nil {
			err = fetchErr
			return err
		}
		manifest.Steps = append(manifest.Steps, entities.ManifestStep{SHA: sha, Ref: ref})

		message := fmt.Sprintf("Merge %s into wip", ref)
		outcome, mergeErr := c.vcs.MergeNoFF(ctx, repo, sha, message, identity.Env())
		if mergeErr != nil {
			err = mergeErr
			return err
		}
		if outcome == repositories.MergeOk {
			continue
		}

		var priorResolution *entities.Resolution
		if prior, ok := preservedResolutions[stepIndex]; ok {
			priorResolution = &prior
		}
		if resolveErr := c.resolveConflicts(ctx, repo, entry.Name, stepIndex, priorResolution); resolveErr != nil {
			err = resolveErr
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

	if manErr := c.pins.WriteManifest(entry.Name, manifest); manErr != nil {
		err = manErr
		return err
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

	if restoreErr := restorePatches(c.pins, entry.Name, preservedPatches); restoreErr != nil {
		err = restoreErr
		return err
	}
	if applyErr := applyLocalPatches(ctx, c.vcs, repo, preservedPatches, mergeCount); applyErr != nil {
		err = applyErr
		return err
	}

	finalHead, headErr := c.vcs.RevParse(ctx, repo, "HEAD")
	if headErr != nil {
		err = headErr
		return err
	}
	if writeErr := c.pins.WriteHead(entry.Name, finalHead); writeErr != nil {
		err = writeErr
		return err
	}

	if entry.ForkURL != "" {
		if remoteErr := c.vcs.AddRemote(ctx, repo, forkRemoteName, entry.ForkURL); remoteErr != nil {
			err = remoteErr
			return err
		}
	}

	if commitErr := staging.commit(); commitErr != nil {
		err = commitErr
		return err
	}

	logger.Infof("recorded %s at %s", entry.Name, finalHead)
	return nil
}

func fetchRef(ctx context.Context, vcs repositories.VCSDriver, repo, ref string) (string, error) {
	switch entities.ClassifyRef(ref) {
	case entities.RefKindHash:
		if err := vcs.FetchSHA(ctx, repo, ref, 0); err != nil {
			return "", err
		}
		return vcs.RevParse(ctx, repo, ref)
	case entities.RefKindPR:
		n, _ := parsePRNumber(ref)
		if err := vcs.FetchPR(ctx, repo, n); err != nil {
			return "", err
		}
		return vcs.RevParse(ctx, repo, fmt.Sprintf("pr-%d", n))
	default:
		if err := vcs.FetchBranch(ctx, repo, ref); err != nil {
			return "", err
		}
		return vcs.RevParse(ctx, repo, "FETCH_HEAD")
	}
}

func parsePRNumber(ref string) (int, error) {
	var n int
	_, err := fmt.Sscanf(ref, "%d", &n)
	return n, err
}

// resolveConflicts runs the conflict resolver in parallel across every
// unmerged path for one merge step, then writes the concatenated sidecar.
func (c *RecordCommand) resolveConflicts(
	ctx context.Context, repo, name string, stepIndex int, prior *entities.Resolution,
) error {
	paths, err := c.vcs.ListUnmerged(ctx, repo)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: merge reported conflicted but no unmerged paths found", entities.ErrVCS)
	}

	priorByPath := map[string]entities.FileResolution{}
	if prior != nil {
		for _, fr := range prior.Files {
			priorByPath[fr.Path] = fr
		}
	}

	type result struct {
		path string
		fr   entities.FileResolution
		err  error
	}
	results := make(chan result, len(paths))
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			full := filepath.Join(repo, path)
			data, readErr := os.ReadFile(full)
			if readErr != nil {
				results <- result{path: path, err: readErr}
				return
			}
			var priorFR *entities.FileResolution
			if fr, ok := priorByPath[path]; ok {
				priorFR = &fr
			}
			resolved, fr, resolveErr := c.resolver.Resolve(ctx, path, string(data), priorFR)
			if resolveErr != nil {
				results <- result{path: path, err: resolveErr}
				return
			}
			if resolved == "" {
				results <- result{path: path, err: fmt.Errorf("%w: resolver returned empty content for %s", entities.ErrResolutionFormat, path)}
				return
			}
			if writeErr := os.WriteFile(full, []byte(resolved), 0o644); writeErr != nil {
				results <- result{path: path, err: writeErr}
				return
			}
			results <- result{path: path, fr: fr}
		}(path)
	}
	wg.Wait()
	close(results)

	fileResolutions := make([]entities.FileResolution, 0, len(paths))
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			continue
		}
		if r.err == nil {
			fileResolutions = append(fileResolutions, r.fr)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	sort.Slice(fileResolutions, func(i, j int) bool {
		return indexOf(paths, fileResolutions[i].Path) < indexOf(paths, fileResolutions[j].Path)
	})

	if stageErr := c.vcs.StageAll(ctx, repo); stageErr != nil {
		return stageErr
	}
	return c.pins.WriteResolution(name, stepIndex, entities.Resolution{Files: fileResolutions})
}

func indexOf(paths []string, path string) int {
	for i, p := range paths {
		if p == path {
			return i
		}
	}
	return -1
}

func (c *RecordCommand) preserveResolutions(name string) map[int]entities.Resolution {
	preserved := map[int]entities.Resolution{}
	for step := 1; ; step++ {
		res, ok, err := c.pins.ReadResolution(name, step)
		if err != nil || !ok {
			break
		}
		preserved[step] = res
	}
	return preserved
}

func restorePatches(pins repositories.PinStore, name string, patches []entities.LocalPatch) error {
	for _, p := range patches {
		if err := pins.WriteLocalPatch(name, p); err != nil {
			return err
		}
	}
	return nil
}
