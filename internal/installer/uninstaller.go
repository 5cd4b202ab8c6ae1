package installer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/ignore"
	"github.com/satchel-sh/satchel/internal/manifest"
	"github.com/satchel-sh/satchel/internal/merge"
)

// UninstallOptions configures an uninstall run.
type UninstallOptions struct {
	ProjectRoot string
	Force       bool // Also remove files the user edited after install.
	DryRun      bool // Plan only; no filesystem changes.
}

// UninstallResult summarizes an uninstall run.
type UninstallResult struct {
	Removed []string // Files deleted (or that would be, in dry-run).
	Kept    []string // Tracked files preserved (user-owned or edited).
	Pruned  []string // Directories removed because they became empty.

	GitignoreRestored bool
}

// Uninstaller removes a satchel installation from a project.
type Uninstaller interface {
	Uninstall(ctx context.Context, opts UninstallOptions) (*UninstallResult, error)
}

type bundleUninstaller struct {
	logger *slog.Logger
}

// NewUninstaller creates an Uninstaller.
func NewUninstaller(logger *slog.Logger) Uninstaller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &bundleUninstaller{logger: logger}
}

// Uninstall removes bundle-managed files recorded in the manifest,
// preserving anything the user created or edited unless forced.
func (u *bundleUninstaller) Uninstall(ctx context.Context, opts UninstallOptions) (*UninstallResult, error) {
	root, err := resolveProjectRoot(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	mgr := manifest.NewManager()
	found, err := mgr.Load(root)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w in %s", ErrNotInstalled, root)
	}

	u.logger.Info("uninstalling bundle", "root", root, "force", opts.Force, "dry_run", opts.DryRun)

	result := &UninstallResult{}
	for _, entry := range mgr.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u.applyEntry(root, entry, opts, mgr, result)
	}

	if !opts.DryRun {
		result.Pruned = pruneEmptyDirs(root, result.Removed)

		restored, err := ignore.Remove(filepath.Join(root, defs.GitignoreFile))
		if err != nil {
			return nil, err
		}
		result.GitignoreRestored = restored

		if err := mgr.Delete(); err != nil {
			return nil, err
		}
	} else {
		result.GitignoreRestored = ignore.HasBlock(filepath.Join(root, defs.GitignoreFile))
	}

	u.logger.Info("uninstall complete",
		"removed", len(result.Removed),
		"kept", len(result.Kept),
		"pruned_dirs", len(result.Pruned),
	)
	return result, nil
}

// applyEntry decides the fate of one tracked file.
func (u *bundleUninstaller) applyEntry(root string, entry manifest.Entry, opts UninstallOptions, mgr manifest.Manager, result *UninstallResult) {
	if entry.Provenance == manifest.UserCreated {
		// Satchel never wrote this file; it is not ours to delete.
		result.Kept = append(result.Kept, entry.Path)
		return
	}

	drift, err := merge.ClassifyFile(root, entry.Path, mgr)
	if err != nil {
		u.logger.Warn("classify failed, keeping file", "path", entry.Path, "error", err)
		result.Kept = append(result.Kept, entry.Path)
		return
	}

	switch drift {
	case merge.DriftMissing:
		// Already gone; nothing to do.
		return
	case merge.DriftModified:
		if !opts.Force {
			result.Kept = append(result.Kept, entry.Path)
			return
		}
	}

	result.Removed = append(result.Removed, entry.Path)
	if opts.DryRun {
		return
	}
	absPath := filepath.Join(root, filepath.FromSlash(entry.Path))
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		u.logger.Warn("remove failed", "path", entry.Path, "error", err)
		result.Removed = result.Removed[:len(result.Removed)-1]
		result.Kept = append(result.Kept, entry.Path)
	}
}

// pruneEmptyDirs removes directories that only existed to hold removed
// files, deepest first. Non-empty directories are left alone.
func pruneEmptyDirs(root string, removed []string) []string {
	dirSet := make(map[string]bool)
	for _, rel := range removed {
		dir := filepath.Dir(filepath.FromSlash(rel))
		for dir != "." && dir != string(filepath.Separator) {
			dirSet[dir] = true
			dir = filepath.Dir(dir)
		}
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	// Deepest first so children go before parents.
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	var pruned []string
	for _, d := range dirs {
		abs := filepath.Join(root, d)
		entries, err := os.ReadDir(abs)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(abs); err == nil {
			pruned = append(pruned, filepath.ToSlash(d))
		}
	}
	sort.Strings(pruned)
	return pruned
}
