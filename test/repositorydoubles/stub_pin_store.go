//go:build integration || unit || test

package repositorydoubles

import (
	"fmt"
	"sort"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

// StubPinStore is an in-memory repositories.PinStore, keyed by entry name.
// SetOverride/ClearOverride are tracked but do not change where data is
// read from — tests that need staging-path behavior assert on
// OverrideDir directly instead of routing through a real filesystem.
type StubPinStore struct {
	OverrideDir string

	heads       map[string]string
	manifests   map[string]entities.Manifest
	resolutions map[string]map[int]entities.Resolution
	patches     map[string][]entities.LocalPatch

	PinRoot   string
	CloneRoot string

	WriteHeadErr       error
	WriteManifestErr   error
	WriteResolutionErr error
	WriteLocalPatchErr error
	RemoveLocalPatchErr error
	RemovePinsErr      error
	RemoveCloneErr     error
}

var _ repositories.PinStore = (*StubPinStore)(nil)

// NewStubPinStore constructs an empty StubPinStore.
func NewStubPinStore() *StubPinStore {
	return &StubPinStore{
		heads:       map[string]string{},
		manifests:   map[string]entities.Manifest{},
		resolutions: map[string]map[int]entities.Resolution{},
		patches:     map[string][]entities.LocalPatch{},
	}
}

func (s *StubPinStore) SetOverride(dir string) { s.OverrideDir = dir }
func (s *StubPinStore) ClearOverride()         { s.OverrideDir = "" }

func (s *StubPinStore) ReadHead(name string) (string, error) {
	head, ok := s.heads[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", entities.ErrStateMissing, name)
	}
	return head, nil
}

func (s *StubPinStore) WriteHead(name, sha string) error {
	if s.WriteHeadErr != nil {
		return s.WriteHeadErr
	}
	s.heads[name] = sha
	return nil
}

func (s *StubPinStore) ReadManifest(name string) (entities.Manifest, bool, error) {
	m, ok := s.manifests[name]
	return m, ok, nil
}

func (s *StubPinStore) WriteManifest(name string, manifest entities.Manifest) error {
	if s.WriteManifestErr != nil {
		return s.WriteManifestErr
	}
	s.manifests[name] = manifest
	return nil
}

func (s *StubPinStore) ReadResolution(name string, step int) (entities.Resolution, bool, error) {
	byStep, ok := s.resolutions[name]
	if !ok {
		return entities.Resolution{}, false, nil
	}
	res, ok := byStep[step]
	return res, ok, nil
}

func (s *StubPinStore) WriteResolution(name string, step int, res entities.Resolution) error {
	if s.WriteResolutionErr != nil {
		return s.WriteResolutionErr
	}
	if s.resolutions[name] == nil {
		s.resolutions[name] = map[int]entities.Resolution{}
	}
	s.resolutions[name][step] = res
	return nil
}

func (s *StubPinStore) ListLocalPatches(name string) ([]entities.LocalPatch, error) {
	patches := append([]entities.LocalPatch(nil), s.patches[name]...)
	sort.Slice(patches, func(i, j int) bool { return patches[i].Number < patches[j].Number })
	return patches, nil
}

func (s *StubPinStore) WriteLocalPatch(name string, patch entities.LocalPatch) error {
	if s.WriteLocalPatchErr != nil {
		return s.WriteLocalPatchErr
	}
	s.patches[name] = append(s.patches[name], patch)
	return nil
}

func (s *StubPinStore) RemoveLocalPatch(name string, number int) error {
	if s.RemoveLocalPatchErr != nil {
		return s.RemoveLocalPatchErr
	}
	kept := s.patches[name][:0]
	for _, p := range s.patches[name] {
		if p.Number != number {
			kept = append(kept, p)
		}
	}
	s.patches[name] = kept
	return nil
}

func (s *StubPinStore) MergeCount(name string) (int, error) {
	m, ok := s.manifests[name]
	if !ok {
		return 0, nil
	}
	return m.MergeCount(), nil
}

func (s *StubPinStore) PinDir(name string) string   { return s.PinRoot + "/" + name }
func (s *StubPinStore) CloneDir(name string) string { return s.CloneRoot + "/" + name }

func (s *StubPinStore) RemovePins(name string) error {
	if s.RemovePinsErr != nil {
		return s.RemovePinsErr
	}
	delete(s.heads, name)
	delete(s.manifests, name)
	delete(s.resolutions, name)
	delete(s.patches, name)
	return nil
}

func (s *StubPinStore) RemoveClone(name string) error {
	return s.RemoveCloneErr
}
