package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/satchel-sh/satchel/internal/defs"
)

// Provenance records who owns a deployed file.
type Provenance string

const (
	// BundleManaged marks files written by satchel and untouched since.
	BundleManaged Provenance = "bundle_managed"
	// UserCreated marks files that existed before satchel tried to write them.
	UserCreated Provenance = "user_created"
	// UserModified marks bundle files the user has edited after install.
	UserModified Provenance = "user_modified"
)

// Entry describes one tracked file, keyed by its project-relative path.
type Entry struct {
	Path       string     `json:"path"`
	Provenance Provenance `json:"provenance"`
	// Hash is the SHA-256 of the content satchel wrote (or observed, for
	// user_created entries) at track time.
	Hash        string `json:"hash"`
	InstalledAt string `json:"installed_at,omitempty"`
}

// manifestFile is the on-disk representation at .satchel/manifest.json.
type manifestFile struct {
	Version   int              `json:"version"`
	Tool      string           `json:"tool"`
	UpdatedAt string           `json:"updated_at"`
	Files     map[string]Entry `json:"files"`
}

const manifestVersion = 1

// Manager tracks deployed files and their provenance so that install,
// update, and uninstall can distinguish satchel's files from the user's.
type Manager interface {
	// Load reads the manifest under projectRoot. It returns true when an
	// existing manifest was found, false when starting fresh.
	Load(projectRoot string) (bool, error)

	// Save writes the manifest back to .satchel/manifest.json, creating
	// the directory if needed.
	Save() error

	// Track records a file with its provenance and content hash.
	Track(relPath string, p Provenance, hash string) error

	// GetEntry returns the entry for a project-relative path.
	GetEntry(relPath string) (Entry, bool)

	// Entries returns all tracked entries sorted by path.
	Entries() []Entry

	// Remove drops a path from the manifest.
	Remove(relPath string)

	// Path returns the absolute manifest file path, or "" before Load.
	Path() string

	// Delete removes the manifest file and prunes .satchel/ if empty.
	Delete() error
}

type manager struct {
	root  string
	files map[string]Entry
	now   func() time.Time
}

// NewManager creates an empty manifest Manager.
func NewManager() Manager {
	return &manager{files: make(map[string]Entry), now: time.Now}
}

// NormalizePath converts a project-relative path to slash-separated NFC form.
// macOS reports NFD file names; normalizing keeps manifest keys stable
// across platforms.
func NormalizePath(relPath string) string {
	return norm.NFC.String(filepath.ToSlash(relPath))
}

// HashBytes returns the hex-encoded SHA-256 of content.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex-encoded SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

func (m *manager) manifestPath() string {
	return filepath.Join(m.root, defs.SatchelDir, defs.ManifestJSON)
}

func (m *manager) Load(projectRoot string) (bool, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return false, fmt.Errorf("manifest resolve root: %w", err)
	}
	m.root = root

	data, err := os.ReadFile(m.manifestPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("manifest read: %w", err)
	}

	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptManifest, err)
	}
	if mf.Files == nil {
		mf.Files = make(map[string]Entry)
	}
	m.files = mf.Files
	return true, nil
}

func (m *manager) Save() error {
	if m.root == "" {
		return ErrNotLoaded
	}

	mf := manifestFile{
		Version:   manifestVersion,
		Tool:      "satchel",
		UpdatedAt: m.now().UTC().Format(time.RFC3339),
		Files:     m.files,
	}
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(m.manifestPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("manifest mkdir %q: %w", dir, err)
	}
	if err := os.WriteFile(m.manifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("manifest write: %w", err)
	}
	return nil
}

func (m *manager) Track(relPath string, p Provenance, hash string) error {
	if m.root == "" {
		return ErrNotLoaded
	}
	key := NormalizePath(relPath)
	m.files[key] = Entry{
		Path:        key,
		Provenance:  p,
		Hash:        hash,
		InstalledAt: m.now().UTC().Format(time.RFC3339),
	}
	return nil
}

func (m *manager) GetEntry(relPath string) (Entry, bool) {
	e, ok := m.files[NormalizePath(relPath)]
	return e, ok
}

func (m *manager) Entries() []Entry {
	entries := make([]Entry, 0, len(m.files))
	for _, e := range m.files {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

func (m *manager) Remove(relPath string) {
	delete(m.files, NormalizePath(relPath))
}

func (m *manager) Path() string {
	if m.root == "" {
		return ""
	}
	return m.manifestPath()
}

func (m *manager) Delete() error {
	if m.root == "" {
		return ErrNotLoaded
	}
	if err := os.Remove(m.manifestPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("manifest delete: %w", err)
	}
	// Prune .satchel/ only when nothing else lives there.
	_ = os.Remove(filepath.Dir(m.manifestPath()))
	m.files = make(map[string]Entry)
	return nil
}
