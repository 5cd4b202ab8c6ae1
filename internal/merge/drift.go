package merge

import (
	"os"
	"path/filepath"

	"github.com/satchel-sh/satchel/internal/manifest"
)

// Drift classifies how a deployed file relates to its manifest record.
type Drift string

const (
	// DriftPristine means the file matches the content satchel wrote.
	DriftPristine Drift = "pristine"
	// DriftModified means the user edited the file after install.
	DriftModified Drift = "modified"
	// DriftMissing means the file was deleted after install.
	DriftMissing Drift = "missing"
	// DriftUntracked means the file has no manifest record.
	DriftUntracked Drift = "untracked"
)

// ClassifyFile compares the file at projectRoot/relPath with its manifest
// entry.
func ClassifyFile(projectRoot, relPath string, m manifest.Manager) (Drift, error) {
	entry, found := m.GetEntry(relPath)
	if !found {
		return DriftUntracked, nil
	}

	absPath := filepath.Join(projectRoot, filepath.FromSlash(relPath))
	currentHash, err := manifest.HashFile(absPath)
	if os.IsNotExist(err) {
		return DriftMissing, nil
	}
	if err != nil {
		return "", err
	}

	if currentHash == entry.Hash {
		return DriftPristine, nil
	}
	return DriftModified, nil
}
