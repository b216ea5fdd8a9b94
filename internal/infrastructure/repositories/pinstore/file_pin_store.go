// Package pinstore implements the on-disk pin layout: HEAD, manifest,
// res-N.resolution, and local-NNN-*.patch files under a pin root directory
// per entry.
package pinstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kdevan/forkpin/internal/domain/codec"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const (
	headFileName     = "HEAD"
	manifestFileName = "manifest"
	dirPermissions   = 0o755
	filePermissions  = 0o644
)

// FilePinStore implements repositories.PinStore rooted at a pins directory
// and a clones directory, both overridable for staging.
type FilePinStore struct {
	pinsRoot   string
	clonesRoot string

	overridePins   string
	overrideClones string
}

var _ repositories.PinStore = (*FilePinStore)(nil)

// NewFilePinStore constructs a FilePinStore rooted at the given pins and
// clones directories.
func NewFilePinStore(pinsRoot, clonesRoot string) *FilePinStore {
	return &FilePinStore{pinsRoot: pinsRoot, clonesRoot: clonesRoot}
}

// PinsRoot and ClonesRoot are distinct types so the DI container can inject
// the two root paths without colliding on the bare string type.
type PinsRoot string
type ClonesRoot string

// NewFilePinStoreFromRoots adapts NewFilePinStore for DI injection of the
// two typed root paths.
func NewFilePinStoreFromRoots(pins PinsRoot, clones ClonesRoot) *FilePinStore {
	return NewFilePinStore(string(pins), string(clones))
}

func (s *FilePinStore) SetOverride(dir string) {
	s.overridePins = filepath.Join(dir, "pins")
	s.overrideClones = filepath.Join(dir, "clones")
}

func (s *FilePinStore) ClearOverride() {
	s.overridePins = ""
	s.overrideClones = ""
}

func (s *FilePinStore) PinDir(name string) string {
	root := s.pinsRoot
	if s.overridePins != "" {
		root = s.overridePins
	}
	return filepath.Join(root, name)
}

func (s *FilePinStore) CloneDir(name string) string {
	root := s.clonesRoot
	if s.overrideClones != "" {
		root = s.overrideClones
	}
	return filepath.Join(root, name)
}

func (s *FilePinStore) ReadHead(name string) (string, error) {
	path := filepath.Join(s.PinDir(name), headFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: HEAD pin for %q: %w", entities.ErrStateMissing, name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FilePinStore) WriteHead(name, sha string) error {
	dir := s.PinDir(name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, headFileName), []byte(sha+"\n"), filePermissions)
}

func (s *FilePinStore) ReadManifest(name string) (entities.Manifest, bool, error) {
	path := filepath.Join(s.PinDir(name), manifestFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return entities.Manifest{}, false, nil
	}
	if err != nil {
		return entities.Manifest{}, false, err
	}
	manifest, parseErr := parseManifest(string(data))
	if parseErr != nil {
		return entities.Manifest{}, false, parseErr
	}
	return manifest, true, nil
}

func parseManifest(data string) (entities.Manifest, error) {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return entities.Manifest{}, fmt.Errorf("%w: empty manifest", entities.ErrMalformedConfig)
	}
	baseSHA, defaultBranch, ok := strings.Cut(lines[0], "\t")
	if !ok {
		return entities.Manifest{}, fmt.Errorf("%w: malformed manifest base line %q", entities.ErrMalformedConfig, lines[0])
	}
	manifest := entities.Manifest{BaseSHA: baseSHA, DefaultBranch: defaultBranch}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		sha, ref, cutOK := strings.Cut(line, "\t")
		if !cutOK {
			return entities.Manifest{}, fmt.Errorf("%w: malformed manifest step %q", entities.ErrMalformedConfig, line)
		}
		manifest.Steps = append(manifest.Steps, entities.ManifestStep{SHA: sha, Ref: ref})
	}
	return manifest, nil
}

func (s *FilePinStore) WriteManifest(name string, manifest entities.Manifest) error {
	var sb strings.Builder
	sb.WriteString(manifest.BaseSHA)
	sb.WriteString("\t")
	sb.WriteString(manifest.DefaultBranch)
	sb.WriteString("\n")
	for _, step := range manifest.Steps {
		sb.WriteString(step.SHA)
		sb.WriteString("\t")
		sb.WriteString(step.Ref)
		sb.WriteString("\n")
	}
	dir := s.PinDir(name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, manifestFileName), []byte(sb.String()), filePermissions)
}

func resolutionFileName(step int) string {
	return fmt.Sprintf("res-%d.resolution", step)
}

func (s *FilePinStore) ReadResolution(name string, step int) (entities.Resolution, bool, error) {
	path := filepath.Join(s.PinDir(name), resolutionFileName(step))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return entities.Resolution{}, false, nil
	}
	if err != nil {
		return entities.Resolution{}, false, err
	}
	files, parseErr := codec.ParseAll(string(data))
	if parseErr != nil {
		return entities.Resolution{}, false, parseErr
	}
	return entities.Resolution{Files: files}, true, nil
}

func (s *FilePinStore) WriteResolution(name string, step int, res entities.Resolution) error {
	dir := s.PinDir(name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}
	data := codec.EmitAll(res.Files)
	return os.WriteFile(filepath.Join(dir, resolutionFileName(step)), []byte(data), filePermissions)
}

func (s *FilePinStore) ListLocalPatches(name string) ([]entities.LocalPatch, error) {
	dir := s.PinDir(name)
	entriesOnDisk, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entriesOnDisk {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "local-") && strings.HasSuffix(e.Name(), ".patch") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	patches := make([]entities.LocalPatch, 0, len(names))
	for _, n := range names {
		num, desc, parseErr := parseLocalPatchName(n)
		if parseErr != nil {
			return nil, parseErr
		}
		data, readErr := os.ReadFile(filepath.Join(dir, n))
		if readErr != nil {
			return nil, readErr
		}
		patches = append(patches, entities.LocalPatch{Number: num, Description: desc, Diff: string(data)})
	}
	return patches, nil
}

func parseLocalPatchName(name string) (int, string, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "local-"), ".patch")
	numStr, desc, ok := strings.Cut(trimmed, "-")
	if !ok {
		return 0, "", fmt.Errorf("%w: malformed local patch filename %q", entities.ErrStateMissing, name)
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, "", fmt.Errorf("%w: malformed local patch number in %q: %w", entities.ErrStateMissing, name, err)
	}
	return num, desc, nil
}

func (s *FilePinStore) WriteLocalPatch(name string, patch entities.LocalPatch) error {
	dir := s.PinDir(name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}
	fileName := entities.LocalPatchFileName(patch.Number, patch.Description)
	return os.WriteFile(filepath.Join(dir, fileName), []byte(patch.Diff), filePermissions)
}

func (s *FilePinStore) RemoveLocalPatch(name string, number int) error {
	dir := s.PinDir(name)
	entriesOnDisk, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	prefix := fmt.Sprintf("local-%03d-", number)
	for _, e := range entriesOnDisk {
		if strings.HasPrefix(e.Name(), prefix) {
			return os.Remove(filepath.Join(dir, e.Name()))
		}
	}
	return nil
}

func (s *FilePinStore) MergeCount(name string) (int, error) {
	manifest, ok, err := s.ReadManifest(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return manifest.MergeCount(), nil
}

func (s *FilePinStore) RemovePins(name string) error {
	return os.RemoveAll(s.PinDir(name))
}

func (s *FilePinStore) RemoveClone(name string) error {
	return os.RemoveAll(s.CloneDir(name))
}
