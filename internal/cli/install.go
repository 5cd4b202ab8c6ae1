package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/assets"
	"github.com/satchel-sh/satchel/internal/bundle"
	"github.com/satchel-sh/satchel/internal/installer"
	"github.com/satchel-sh/satchel/internal/ui"
	"github.com/satchel-sh/satchel/pkg/version"
)

var installCmd = &cobra.Command{
	Use:   "install [target-dir]",
	Short: "Install the satchel bundle into a repository",
	Long: `Install the agent personas, slash commands, settings, and memories/
convention into a repository.

The install is an idempotent merge: files that already exist at the
destination are left alone. --force replaces satchel-managed files with
the embedded versions, but files you have edited survive unless you
confirm (or pass --yes together with --force).

Examples:
  satchel install                Install into the current directory
  satchel install ../my-app      Install into ../my-app
  satchel install --dry-run      Show what would change, touch nothing
  satchel install --claude-only  Only .claude/ and CLAUDE.md, no memories/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().Bool("force", false, "Overwrite satchel-managed files with the bundled versions")
	installCmd.Flags().Bool("dry-run", false, "Print the plan without changing anything")
	installCmd.Flags().Bool("claude-only", false, "Install only .claude/ and CLAUDE.md, skip memories/")
	installCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
	installCmd.Flags().String("name", "", "Project name (default: target directory name)")
	installCmd.Flags().String("username", "", "Your display name, rendered into CLAUDE.md")
}

func runInstall(cmd *cobra.Command, args []string) error {
	target, err := targetDirArg(args)
	if err != nil {
		return err
	}

	force := getBoolFlag(cmd, "force")
	dryRun := getBoolFlag(cmd, "dry-run")
	yes := getBoolFlag(cmd, "yes")

	opts := installer.InstallOptions{
		ProjectRoot: target,
		ProjectName: getStringFlag(cmd, "name"),
		UserName:    getStringFlag(cmd, "username"),
		Version:     version.GetVersion(),
		Force:       force,
		DryRun:      dryRun,
		ClaudeOnly:  getBoolFlag(cmd, "claude-only"),
	}

	// Overwriting files the user edited needs an explicit opt-in:
	// either an interactive confirmation or --force --yes together.
	if force && !dryRun {
		if yes {
			opts.OverwriteModified = true
		} else if isatty.IsTerminal(os.Stdin.Fd()) {
			confirmed, err := confirmOverwrite()
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					_, _ = fmt.Fprintln(cmd.OutOrStderr(), "Install cancelled.")
					return nil
				}
				return err
			}
			opts.OverwriteModified = confirmed
		}
	}

	fsys, err := assets.Bundle()
	if err != nil {
		return err
	}
	deployer := bundle.NewDeployer(fsys)

	out := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(out, cliMuted.Render("Dry run: no files will be written."))
	}

	// Progress over the bundle files; headless runs get plain log lines.
	theme := ui.DefaultTheme()
	hm := ui.NewHeadlessManager()
	if dryRun {
		hm.ForceHeadless(true)
	}
	bar := ui.NewProgress(theme, hm, out).Start("Deploying bundle", len(deployer.ListTemplates()))
	opts.OnAction = func(a bundle.Action) {
		bar.SetTitle(a.Path)
		bar.Increment(1)
	}

	inst := installer.New(deployer, newLogger())
	result, err := inst.Install(cmd.Context(), opts)
	bar.Done()
	if err != nil {
		return err
	}

	printInstallResult(cmd, result, dryRun)
	return nil
}

// confirmOverwrite asks whether user-edited files should be replaced too.
func confirmOverwrite() (bool, error) {
	var overwrite bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Overwrite files you have edited?").
			Description("--force always refreshes pristine satchel files. Answer yes to also replace files with local edits.").
			Affirmative("Overwrite").
			Negative("Keep my edits").
			Value(&overwrite),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return overwrite, nil
}

func printInstallResult(cmd *cobra.Command, result *installer.InstallResult, dryRun bool) {
	out := cmd.OutOrStdout()

	for _, a := range result.Actions {
		switch a.Op {
		case bundle.OpCreate:
			_, _ = fmt.Fprintf(out, "  %s %s\n", symSuccess(), a.Path)
		case bundle.OpOverwrite:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symSuccess(), a.Path, cliMuted.Render("(replaced)"))
		case bundle.OpUnchanged:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symBullet(), a.Path, cliMuted.Render("(up to date)"))
		case bundle.OpSkipExisting:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), a.Path, cliMuted.Render("(exists, kept)"))
		case bundle.OpSkipModified:
			_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), a.Path, cliMuted.Render("(edited by you, kept)"))
		}
	}

	pairs := []kvPair{
		{"Created", fmt.Sprintf("%d", result.Created())},
		{"Replaced", fmt.Sprintf("%d", result.Overwritten())},
		{"Preserved", fmt.Sprintf("%d", result.Skipped())},
		{"Up to date", fmt.Sprintf("%d", result.Unchanged())},
	}

	title := "Satchel installed"
	if dryRun {
		title = "Install plan (dry run)"
	}
	details := []string{renderKeyValueLines(pairs)}
	if result.GitignoreUpdated {
		details = append(details, cliMuted.Render(".gitignore: satchel block added"))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(title, details...))
}
