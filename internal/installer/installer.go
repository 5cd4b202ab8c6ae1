// Package installer orchestrates installing and removing the satchel
// bundle in a target project: deployment, gitignore maintenance, and
// manifest bookkeeping.
package installer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/satchel-sh/satchel/internal/bundle"
	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/ignore"
	"github.com/satchel-sh/satchel/internal/manifest"
)

// InstallOptions configures an install run.
type InstallOptions struct {
	ProjectRoot string // Target directory; must exist.
	ProjectName string // Defaults to the directory name.
	UserName    string // Optional, rendered into CLAUDE.md.
	Version     string // satchel version performing the install.

	Force             bool // Overwrite pristine bundle-managed files.
	OverwriteModified bool // Also overwrite user-created/edited files.
	DryRun            bool // Plan only; no filesystem changes.
	ClaudeOnly        bool // Install only .claude/ and CLAUDE.md.

	// OnAction receives each file decision as it is made (progress UI).
	OnAction func(bundle.Action)
}

// InstallResult summarizes an install run.
type InstallResult struct {
	Actions          []bundle.Action
	GitignoreUpdated bool
	ManifestPath     string
}

// Created returns the number of files written for the first time.
func (r *InstallResult) Created() int { return r.countOp(bundle.OpCreate) }

// Overwritten returns the number of files replaced.
func (r *InstallResult) Overwritten() int { return r.countOp(bundle.OpOverwrite) }

// Skipped returns the number of files preserved.
func (r *InstallResult) Skipped() int {
	return r.countOp(bundle.OpSkipExisting) + r.countOp(bundle.OpSkipModified)
}

// Unchanged returns the number of files already up to date.
func (r *InstallResult) Unchanged() int { return r.countOp(bundle.OpUnchanged) }

func (r *InstallResult) countOp(op bundle.Op) int {
	n := 0
	for _, a := range r.Actions {
		if a.Op == op {
			n++
		}
	}
	return n
}

// Installer deploys the bundle into a project.
type Installer interface {
	Install(ctx context.Context, opts InstallOptions) (*InstallResult, error)
}

type bundleInstaller struct {
	deployer bundle.Deployer
	logger   *slog.Logger
}

// New creates an Installer around the given deployer.
func New(deployer bundle.Deployer, logger *slog.Logger) Installer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &bundleInstaller{deployer: deployer, logger: logger}
}

// Install deploys the bundle into opts.ProjectRoot.
func (i *bundleInstaller) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	root, err := resolveProjectRoot(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	if opts.ProjectName == "" {
		opts.ProjectName = filepath.Base(root)
	}

	i.logger.Info("installing bundle",
		"root", root,
		"name", opts.ProjectName,
		"force", opts.Force,
		"dry_run", opts.DryRun,
		"claude_only", opts.ClaudeOnly,
	)

	mgr := manifest.NewManager()
	if _, err := mgr.Load(root); err != nil {
		return nil, err
	}

	tmplCtx := bundle.NewContext(
		bundle.WithProject(opts.ProjectName, root),
		bundle.WithUser(opts.UserName),
		bundle.WithVersion(opts.Version),
	)

	deployOpts := bundle.Options{
		Force:             opts.Force,
		OverwriteModified: opts.OverwriteModified,
		DryRun:            opts.DryRun,
		ClaudeOnly:        opts.ClaudeOnly,
		OnAction:          opts.OnAction,
	}

	actions, err := i.deployer.Deploy(ctx, root, mgr, tmplCtx, deployOpts)
	if err != nil {
		return nil, fmt.Errorf("deploy bundle: %w", err)
	}

	result := &InstallResult{Actions: actions}

	gitignorePath := filepath.Join(root, defs.GitignoreFile)
	if opts.DryRun {
		result.GitignoreUpdated = !ignore.HasBlock(gitignorePath)
	} else {
		changed, err := ignore.Ensure(gitignorePath, ignore.DefaultEntries)
		if err != nil {
			return nil, err
		}
		result.GitignoreUpdated = changed
	}

	if !opts.DryRun {
		if err := mgr.Save(); err != nil {
			return nil, err
		}
		result.ManifestPath = mgr.Path()
	}

	i.logger.Info("install complete",
		"created", result.Created(),
		"overwritten", result.Overwritten(),
		"skipped", result.Skipped(),
		"unchanged", result.Unchanged(),
	)
	return result, nil
}

// resolveProjectRoot validates the target directory and returns it as an
// absolute path.
func resolveProjectRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve project root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoTargetDir, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNoTargetDir, abs)
	}
	return abs, nil
}
