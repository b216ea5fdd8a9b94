package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const stagingDirPermissions = 0o755

// stagingArea is a sibling build directory for one entry: a temporary
// "pins/<name>" and "clones/<name>" tree built up before an atomic swap
// into the real pin/clone roots (spec §4.6 step 2, §9 "Atomic swap").
//
// The swap in commit is only atomic, and only succeeds at all, if the
// staging directory shares a filesystem with both the real clone root and
// the real pin root: os.Rename fails with EXDEV across filesystem
// boundaries. beginStaging roots staging next to the clone root, so a
// pins root mounted on a different filesystem than the clones root will
// make every commit fail; this mirrors the single-filesystem assumption
// spec §9 makes explicit for the atomic swap.
type stagingArea struct {
	dir  string
	name string
	pins repositories.PinStore
}

// beginStaging creates a staging directory as a sibling of the entry's
// final clone directory (same filesystem, so the eventual rename is
// atomic) and points the pin store's overrides at it.
func beginStaging(pins repositories.PinStore, name string) (*stagingArea, error) {
	parent := filepath.Dir(pins.CloneDir(name))
	dir := filepath.Join(parent, fmt.Sprintf(".work-%s.%s", name, uuid.NewString()))

	if err := os.MkdirAll(filepath.Join(dir, "pins", name), stagingDirPermissions); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, "clones", name), stagingDirPermissions); err != nil {
		return nil, err
	}

	pins.SetOverride(dir)
	return &stagingArea{dir: dir, name: name, pins: pins}, nil
}

// cloneDir returns the staging clone directory while the override is active.
func (s *stagingArea) cloneDir() string {
	return s.pins.CloneDir(s.name)
}

// abort clears the override and removes the whole staging tree, leaving
// the prior real state untouched.
func (s *stagingArea) abort() {
	s.pins.ClearOverride()
	_ = os.RemoveAll(s.dir)
}

// commit renames the staged clone and pins into their final locations,
// replacing whatever was there. It is the only place the real clone/pin
// directories are mutated during record or replay.
func (s *stagingArea) commit() error {
	stagingClones := filepath.Join(s.dir, "clones", s.name)
	stagingPins := filepath.Join(s.dir, "pins", s.name)

	s.pins.ClearOverride()
	finalCloneDir := s.pins.CloneDir(s.name)
	finalPinDir := s.pins.PinDir(s.name)

	if err := os.RemoveAll(finalCloneDir); err != nil {
		return err
	}
	if err := os.RemoveAll(finalPinDir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(finalCloneDir), stagingDirPermissions); err != nil {
		return err
	}
	if err := os.Rename(stagingClones, finalCloneDir); err != nil {
		return fmt.Errorf("rename staged clone into place (pins and clones roots must share a filesystem): %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(finalPinDir), stagingDirPermissions); err != nil {
		return err
	}
	if err := os.Rename(stagingPins, finalPinDir); err != nil {
		return fmt.Errorf("rename staged pins into place (pins and clones roots must share a filesystem): %w", err)
	}
	return os.RemoveAll(s.dir)
}
