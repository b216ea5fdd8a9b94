package repositories

import "github.com/kdevan/forkpin/internal/domain/entities"

// PinStore reads and writes the four pin artifacts for one entry: HEAD,
// manifest, res-N.resolution, local-NNN-*.patch (spec §4.2).
//
// Path-compute functions honor a staging override: while the engines
// operate in staging mode, SetOverride points every subsequent read/write at
// a temporary directory so subprocess-observed paths and pin-store paths
// agree. Missing files return a distinguishable absent result, never an
// error, except ReadHead, which errors if the file is absent.
type PinStore interface {
	SetOverride(dir string)
	ClearOverride()

	ReadHead(name string) (string, error)
	WriteHead(name, sha string) error

	ReadManifest(name string) (entities.Manifest, bool, error)
	WriteManifest(name string, manifest entities.Manifest) error

	ReadResolution(name string, step int) (entities.Resolution, bool, error)
	WriteResolution(name string, step int, res entities.Resolution) error

	ListLocalPatches(name string) ([]entities.LocalPatch, error)
	WriteLocalPatch(name string, patch entities.LocalPatch) error
	RemoveLocalPatch(name string, number int) error

	MergeCount(name string) (int, error)

	// PinDir and CloneDir return the current (possibly overridden) paths
	// for an entry's pins and its working clone.
	PinDir(name string) string
	CloneDir(name string) string

	// RemovePins and RemoveClone delete an entry's on-disk state entirely;
	// RemovePins is used by reset and RemoveClone by clean.
	RemovePins(name string) error
	RemoveClone(name string) error
}
