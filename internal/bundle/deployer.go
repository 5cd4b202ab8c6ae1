package bundle

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/manifest"
)

// Op classifies what the deployer did (or would do) with one bundle file.
type Op string

const (
	// OpCreate means the file was absent and was written.
	OpCreate Op = "create"
	// OpOverwrite means an existing file was replaced.
	OpOverwrite Op = "overwrite"
	// OpUnchanged means the file already matched the bundle content.
	OpUnchanged Op = "unchanged"
	// OpSkipExisting means an existing file was preserved (copy-if-absent).
	OpSkipExisting Op = "skip-existing"
	// OpSkipModified means a user-edited file was preserved.
	OpSkipModified Op = "skip-modified"
)

// Action records the outcome for a single destination path.
type Action struct {
	Path string
	Op   Op
}

// Changed reports whether the action writes to the filesystem.
func (a Action) Changed() bool {
	return a.Op == OpCreate || a.Op == OpOverwrite
}

// Options controls a single Deploy run.
type Options struct {
	// Force overwrites pristine bundle-managed files with the embedded
	// versions. User-modified files still survive unless OverwriteModified.
	Force bool

	// OverwriteModified also replaces files the user created or edited.
	// The CLI sets this only after explicit confirmation.
	OverwriteModified bool

	// DryRun computes the action plan without touching the filesystem
	// or the manifest.
	DryRun bool

	// ClaudeOnly restricts deployment to .claude/ and CLAUDE.md,
	// skipping the memories/ tree.
	ClaudeOnly bool

	// OnAction, when set, is invoked after each file is decided.
	// Used by the CLI to drive progress reporting.
	OnAction func(Action)
}

// Deployer extracts the embedded bundle and deploys it into a project
// root, tracking each file in the manifest. Files ending in .tmpl are
// rendered with the Context and saved without the suffix.
type Deployer interface {
	// Deploy walks the bundle and applies it to projectRoot per opts.
	// It returns one Action per in-scope bundle file, in walk order.
	Deploy(ctx context.Context, projectRoot string, m manifest.Manager, tmplCtx *Context, opts Options) ([]Action, error)

	// ExtractTemplate returns the raw content of a single bundle file.
	ExtractTemplate(name string) ([]byte, error)

	// ListTemplates returns the deployment target paths of all bundle
	// files (with .tmpl suffixes stripped).
	ListTemplates() []string
}

type deployer struct {
	fsys     fs.FS
	renderer Renderer
}

// NewDeployer creates a Deployer backed by the given filesystem.
// In production the fs.FS comes from go:embed; in tests use
// testing/fstest.MapFS.
func NewDeployer(fsys fs.FS) Deployer {
	return &deployer{fsys: fsys, renderer: NewRenderer(fsys)}
}

// InScope reports whether a destination path is part of a claude-only
// install.
func InScope(destRelPath string, claudeOnly bool) bool {
	if !claudeOnly {
		return true
	}
	slashed := filepath.ToSlash(destRelPath)
	return slashed == defs.ClaudeMD || slashed == defs.ClaudeDir ||
		strings.HasPrefix(slashed, defs.ClaudeDir+"/")
}

func (d *deployer) Deploy(ctx context.Context, projectRoot string, m manifest.Manager, tmplCtx *Context, opts Options) ([]Action, error) {
	projectRoot = filepath.Clean(projectRoot)
	var actions []Action

	walkErr := fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation before each file
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == "." || entry.IsDir() {
			return nil
		}

		if err := validateDeployPath(projectRoot, path); err != nil {
			return err
		}

		content, destRelPath, err := d.materialize(path, tmplCtx)
		if err != nil {
			return err
		}

		if !InScope(destRelPath, opts.ClaudeOnly) {
			return nil
		}

		action, err := d.applyFile(projectRoot, destRelPath, content, m, opts)
		if err != nil {
			return err
		}
		actions = append(actions, action)
		if opts.OnAction != nil {
			opts.OnAction(action)
		}
		return nil
	})

	if walkErr != nil {
		return actions, walkErr
	}
	return actions, nil
}

// materialize resolves a bundle path to its destination path and content,
// rendering .tmpl files when a context is available.
func (d *deployer) materialize(path string, tmplCtx *Context) ([]byte, string, error) {
	if strings.HasSuffix(path, defs.TemplateSuffix) && tmplCtx != nil {
		rendered, err := d.renderer.Render(path, tmplCtx)
		if err != nil {
			return nil, "", fmt.Errorf("bundle render %q: %w", path, err)
		}
		return rendered, strings.TrimSuffix(path, defs.TemplateSuffix), nil
	}

	raw, err := fs.ReadFile(d.fsys, path)
	if err != nil {
		return nil, "", fmt.Errorf("bundle read %q: %w", path, err)
	}
	return raw, path, nil
}

// applyFile decides and (unless dry-run) performs the write for one file.
func (d *deployer) applyFile(projectRoot, destRelPath string, content []byte, m manifest.Manager, opts Options) (Action, error) {
	destPath := filepath.Join(projectRoot, filepath.FromSlash(destRelPath))
	newHash := manifest.HashBytes(content)

	op := OpCreate
	if _, statErr := os.Stat(destPath); statErr == nil {
		currentHash, err := manifest.HashFile(destPath)
		if err != nil {
			return Action{}, fmt.Errorf("bundle hash %q: %w", destPath, err)
		}

		switch {
		case currentHash == newHash:
			// Already up to date. Refresh tracking so uninstall knows
			// this file is ours.
			op = OpUnchanged
		default:
			op = d.classifyExisting(destRelPath, currentHash, m, opts)
		}
	}

	if opts.DryRun {
		return Action{Path: destRelPath, Op: op}, nil
	}

	switch op {
	case OpSkipExisting:
		// Existing file not tracked in the manifest: record it as the
		// user's so later runs keep preserving it.
		if _, found := m.GetEntry(destRelPath); !found {
			currentHash, err := manifest.HashFile(destPath)
			if err != nil {
				return Action{}, fmt.Errorf("bundle hash %q: %w", destPath, err)
			}
			if err := m.Track(destRelPath, manifest.UserCreated, currentHash); err != nil {
				return Action{}, err
			}
		}
		return Action{Path: destRelPath, Op: op}, nil

	case OpSkipModified:
		if err := m.Track(destRelPath, manifest.UserModified, newHash); err != nil {
			return Action{}, err
		}
		return Action{Path: destRelPath, Op: op}, nil
	}

	if op == OpCreate || op == OpOverwrite {
		destDir := filepath.Dir(destPath)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return Action{}, fmt.Errorf("bundle mkdir %q: %w", destDir, err)
		}

		// Shell scripts need the executable bit; everything else is plain.
		perm := fs.FileMode(0o644)
		if strings.HasSuffix(destRelPath, ".sh") {
			perm = 0o755
		}

		if err := os.WriteFile(destPath, content, perm); err != nil {
			return Action{}, fmt.Errorf("bundle write %q: %w", destPath, err)
		}
	}

	if err := m.Track(destRelPath, manifest.BundleManaged, newHash); err != nil {
		return Action{}, err
	}
	return Action{Path: destRelPath, Op: op}, nil
}

// classifyExisting decides what to do with a destination file whose
// content differs from the bundle's.
func (d *deployer) classifyExisting(destRelPath, currentHash string, m manifest.Manager, opts Options) Op {
	entry, found := m.GetEntry(destRelPath)
	if !found {
		// Pre-existing file satchel never wrote.
		if opts.OverwriteModified {
			return OpOverwrite
		}
		return OpSkipExisting
	}

	switch entry.Provenance {
	case manifest.UserCreated, manifest.UserModified:
		if opts.OverwriteModified {
			return OpOverwrite
		}
		return OpSkipModified

	case manifest.BundleManaged:
		if currentHash != entry.Hash {
			// Drifted since we wrote it: the user edited a managed file.
			if opts.OverwriteModified {
				return OpOverwrite
			}
			return OpSkipModified
		}
		// Pristine managed file, bundle content moved on.
		if opts.Force {
			return OpOverwrite
		}
		return OpSkipExisting
	}

	return OpSkipExisting
}

// ExtractTemplate returns the content of a single named bundle file.
func (d *deployer) ExtractTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

// ListTemplates returns sorted relative deployment paths of all bundle files.
func (d *deployer) ListTemplates() []string {
	var list []string

	_ = fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors during listing
		}
		if path == "." || entry.IsDir() {
			return nil
		}
		targetPath := strings.TrimSuffix(path, defs.TemplateSuffix)
		list = append(list, targetPath)
		return nil
	})

	return list
}

// validateDeployPath ensures a bundle path does not escape projectRoot.
func validateDeployPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}

	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, string(filepath.Separator)+"..") {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}

	return nil
}
