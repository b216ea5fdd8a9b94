// Package vcsdriver wraps the real git binary via os/exec. The core calls
// into the real CLI rather than a pure-Go implementation because diff3
// markers, core.abbrev=40, partial clone filters, and MERGE_MSG rewriting
// are behaviors this codebase needs byte-for-byte, not approximated.
package vcsdriver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// GitDriver implements repositories.VCSDriver by shelling out to git.
type GitDriver struct{}

var _ repositories.VCSDriver = (*GitDriver)(nil)

// NewGitDriver constructs a GitDriver.
func NewGitDriver() *GitDriver {
	return &GitDriver{}
}

func (d *GitDriver) run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debugf("git %s (dir=%s)", strings.Join(args, " "), dir)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: git %s: %s", entities.ErrVCS, strings.Join(args, " "), stderr.String())
	}
	return stdout.String(), nil
}

func (d *GitDriver) Clone(ctx context.Context, url, dest string, blobFilter bool) error {
	args := []string{"clone", "--no-single-branch"}
	if blobFilter {
		args = append(args, "--filter=blob:none")
	}
	args = append(args, url, dest)
	_, err := d.run(ctx, "", nil, args...)
	return err
}

func (d *GitDriver) SetOption(ctx context.Context, repo, key, value string) error {
	_, err := d.run(ctx, repo, nil, "config", key, value)
	return err
}

func (d *GitDriver) FetchSHA(ctx context.Context, repo, sha string, depth int) error {
	args := []string{"fetch", "origin", sha}
	if depth > 0 {
		args = append(args, "--depth", strconv.Itoa(depth))
	}
	_, err := d.run(ctx, repo, nil, args...)
	return err
}

func (d *GitDriver) FetchPR(ctx context.Context, repo string, number int) error {
	ref := fmt.Sprintf("pull/%d/head:pr-%d", number, number)
	_, err := d.run(ctx, repo, nil, "fetch", "origin", ref)
	return err
}

func (d *GitDriver) FetchBranch(ctx context.Context, repo, branch string) error {
	_, err := d.run(ctx, repo, nil, "fetch", "origin", branch)
	return err
}

func (d *GitDriver) RevParse(ctx context.Context, repo, revspec string) (string, error) {
	out, err := d.run(ctx, repo, nil, "rev-parse", revspec)
	return strings.TrimSpace(out), err
}

func (d *GitDriver) CurrentBranch(ctx context.Context, repo string) (string, error) {
	out, err := d.run(ctx, repo, nil, "rev-parse", "--abbrev-ref", "HEAD")
	return strings.TrimSpace(out), err
}

func (d *GitDriver) ListBranches(ctx context.Context, repo string) ([]string, error) {
	out, err := d.run(ctx, repo, nil, "branch", "--list", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

func (d *GitDriver) Checkout(ctx context.Context, repo, revspec string) error {
	_, err := d.run(ctx, repo, nil, "checkout", revspec)
	return err
}

func (d *GitDriver) CreateBranch(ctx context.Context, repo, name string) error {
	_, err := d.run(ctx, repo, nil, "checkout", "-b", name)
	return err
}

func (d *GitDriver) MergeNoFF(
	ctx context.Context, repo, sha, message string, env []string,
) (repositories.MergeOutcome, error) {
	_, err := d.run(ctx, repo, env, "merge", "--no-ff", "-m", message, sha)
	if err == nil {
		return repositories.MergeOk, nil
	}
	unmerged, listErr := d.ListUnmerged(ctx, repo)
	if listErr == nil && len(unmerged) > 0 {
		return repositories.MergeConflicted, nil
	}
	return repositories.MergeOk, err
}

func (d *GitDriver) ListUnmerged(ctx context.Context, repo string) ([]string, error) {
	out, err := d.run(ctx, repo, nil, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

func (d *GitDriver) StageAll(ctx context.Context, repo string) error {
	_, err := d.run(ctx, repo, nil, "add", "-A")
	return err
}

func (d *GitDriver) WriteMergeMsg(ctx context.Context, repo, message string) error {
	path := filepath.Join(repo, ".git", "MERGE_MSG")
	if err := os.WriteFile(path, []byte(message+"\n"), 0o644); err != nil {
		return fmt.Errorf("%w: write MERGE_MSG: %w", entities.ErrVCS, err)
	}
	return nil
}

func (d *GitDriver) MergeContinueNoEdit(ctx context.Context, repo string, env []string) error {
	_, err := d.run(ctx, repo, env, "merge", "--continue", "--no-edit")
	return err
}

func (d *GitDriver) Commit(ctx context.Context, repo, message string, env []string) error {
	_, err := d.run(ctx, repo, env, "commit", "-m", message)
	return err
}

func (d *GitDriver) ApplyPatch(ctx context.Context, repo, path string) error {
	_, err := d.run(ctx, repo, nil, "apply", "--index", path)
	return err
}

func (d *GitDriver) DiffQuiet(ctx context.Context, repo, a, b string, cached bool) (bool, error) {
	args := []string{"diff", "--quiet"}
	if cached {
		args = append(args, "--cached")
	}
	args = append(args, a)
	if b != "" {
		args = append(args, b)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repo
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("%w: git %s: %w", entities.ErrVCS, strings.Join(args, " "), err)
}

func (d *GitDriver) ListUntracked(ctx context.Context, repo string) ([]string, error) {
	out, err := d.run(ctx, repo, nil, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

func (d *GitDriver) StashList(ctx context.Context, repo string) ([]string, error) {
	out, err := d.run(ctx, repo, nil, "stash", "list")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

func (d *GitDriver) LogOnelineRange(ctx context.Context, repo, a, b string) ([]string, error) {
	out, err := d.run(ctx, repo, nil, "log", "--oneline", a+".."+b)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

func (d *GitDriver) CherryPickRange(
	ctx context.Context, repo, a, b string, env []string,
) (repositories.MergeOutcome, error) {
	_, err := d.run(ctx, repo, env, "cherry-pick", a+".."+b)
	if err == nil {
		return repositories.MergeOk, nil
	}
	unmerged, listErr := d.ListUnmerged(ctx, repo)
	if listErr == nil && len(unmerged) > 0 {
		return repositories.MergeConflicted, nil
	}
	return repositories.MergeOk, err
}

func (d *GitDriver) AddRemote(ctx context.Context, repo, name, url string) error {
	_, err := d.run(ctx, repo, nil, "remote", "add", name, url)
	return err
}

func (d *GitDriver) DiffCached(ctx context.Context, repo, base string) (string, error) {
	return d.run(ctx, repo, nil, "diff", "--cached", base)
}

func (d *GitDriver) ResetHard(ctx context.Context, repo, revspec string) error {
	_, err := d.run(ctx, repo, nil, "reset", "--hard", revspec)
	return err
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

