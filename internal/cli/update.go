package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/assets"
	"github.com/satchel-sh/satchel/internal/bundle"
	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/installer"
	"github.com/satchel-sh/satchel/internal/merge"
	"github.com/satchel-sh/satchel/pkg/version"
)

var updateCmd = &cobra.Command{
	Use:   "update [target-dir]",
	Short: "Refresh satchel-managed files to the bundled versions",
	Long: `Re-deploy the bundle, replacing satchel-managed files that are still
pristine with the versions shipped in this binary.

Files you edited after install are never replaced by update; they are
reported with a diff stat instead. Use "satchel install --force" when
you actually want to discard local edits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().Bool("dry-run", false, "Print the plan without changing anything")
	updateCmd.Flags().Bool("diff", false, "Show unified diffs for files kept because you edited them")
	updateCmd.Flags().String("name", "", "Project name (default: target directory name)")
	updateCmd.Flags().String("username", "", "Your display name, rendered into CLAUDE.md")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	target, err := targetDirArg(args)
	if err != nil {
		return err
	}

	fsys, err := assets.Bundle()
	if err != nil {
		return err
	}
	deployer := bundle.NewDeployer(fsys)

	projectName := getStringFlag(cmd, "name")
	if projectName == "" {
		if abs, err := filepath.Abs(target); err == nil {
			projectName = filepath.Base(abs)
		}
	}

	opts := installer.InstallOptions{
		ProjectRoot: target,
		ProjectName: projectName,
		UserName:    getStringFlag(cmd, "username"),
		Version:     version.GetVersion(),
		Force:       true,
		DryRun:      getBoolFlag(cmd, "dry-run"),
	}

	inst := installer.New(deployer, newLogger())
	result, err := inst.Install(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tmplCtx := bundle.NewContext(
		bundle.WithProject(opts.ProjectName, target),
		bundle.WithUser(opts.UserName),
		bundle.WithVersion(opts.Version),
	)
	renderer := bundle.NewRenderer(fsys)
	showDiff := getBoolFlag(cmd, "diff")

	var edited []string
	for _, a := range result.Actions {
		switch a.Op {
		case bundle.OpOverwrite:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symSuccess(), a.Path, cliMuted.Render("(refreshed)"))
		case bundle.OpCreate:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symSuccess(), a.Path, cliMuted.Render("(new)"))
		case bundle.OpSkipModified, bundle.OpSkipExisting:
			edited = append(edited, a.Path)
		}
	}

	for _, rel := range edited {
		bundled, err := materializeBundleFile(fsys, renderer, rel, tmplCtx)
		if err != nil {
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), rel, cliMuted.Render("(kept)"))
			continue
		}
		current, err := os.ReadFile(filepath.Join(target, filepath.FromSlash(rel)))
		if err != nil {
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), rel, cliMuted.Render("(kept)"))
			continue
		}

		stat := merge.DiffStat(bundled, current)
		_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), rel,
			cliMuted.Render(fmt.Sprintf("(kept, local edits %s)", stat)))
		if showDiff {
			if diff := merge.UnifiedDiff(rel, bundled, current); diff != "" {
				_, _ = fmt.Fprintln(out, cliMuted.Render(diff))
			}
		}
	}

	pairs := []kvPair{
		{"Refreshed", fmt.Sprintf("%d", result.Overwritten())},
		{"New", fmt.Sprintf("%d", result.Created())},
		{"Up to date", fmt.Sprintf("%d", result.Unchanged())},
		{"Kept (edited)", fmt.Sprintf("%d", len(edited))},
	}

	title := "Satchel updated"
	if opts.DryRun {
		title = "Update plan (dry run)"
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(title, renderKeyValueLines(pairs)))
	if len(edited) > 0 && !showDiff {
		_, _ = fmt.Fprintln(out, cliMuted.Render("Run with --diff to see how kept files differ from the bundle."))
	}
	return nil
}

// materializeBundleFile returns the content a destination path would get
// from the bundle, rendering the .tmpl source when the raw file does not
// exist.
func materializeBundleFile(fsys fs.FS, renderer bundle.Renderer, destRelPath string, tmplCtx *bundle.Context) ([]byte, error) {
	if data, err := fs.ReadFile(fsys, destRelPath); err == nil {
		return data, nil
	}
	return renderer.Render(destRelPath+defs.TemplateSuffix, tmplCtx)
}
