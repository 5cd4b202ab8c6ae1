package manifest

import "errors"

var (
	// ErrNotLoaded is returned when the manager is used before Load.
	ErrNotLoaded = errors.New("manifest: not loaded")

	// ErrCorruptManifest is returned when manifest.json cannot be parsed.
	ErrCorruptManifest = errors.New("manifest: corrupt manifest file")
)
