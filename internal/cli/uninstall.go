package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/installer"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [target-dir]",
	Short: "Remove the satchel bundle from a repository",
	Long: `Remove every file satchel installed, using the manifest to tell its
own files apart from yours.

Files you created or edited after install are kept unless you pass
--force. Directories that become empty are pruned, the satchel block is
removed from .gitignore, and the manifest itself is deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)

	uninstallCmd.Flags().Bool("force", false, "Also remove files you edited after install")
	uninstallCmd.Flags().Bool("dry-run", false, "Print the plan without changing anything")
	uninstallCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	target, err := targetDirArg(args)
	if err != nil {
		return err
	}

	opts := installer.UninstallOptions{
		ProjectRoot: target,
		Force:       getBoolFlag(cmd, "force"),
		DryRun:      getBoolFlag(cmd, "dry-run"),
	}
	yes := getBoolFlag(cmd, "yes")

	if !opts.DryRun && !yes && isatty.IsTerminal(os.Stdin.Fd()) {
		confirmed, err := confirmUninstall(target, opts.Force)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				confirmed = false
			} else {
				return err
			}
		}
		if !confirmed {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Uninstall cancelled.")
			return nil
		}
	}

	u := installer.NewUninstaller(newLogger())
	result, err := u.Uninstall(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printUninstallResult(cmd, result, opts.DryRun)
	return nil
}

func confirmUninstall(target string, force bool) (bool, error) {
	desc := "Files you created or edited will be kept."
	if force {
		desc = "--force is set: files you edited after install will be removed too."
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Remove satchel from %s?", target)).
			Description(desc).
			Affirmative("Remove").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func printUninstallResult(cmd *cobra.Command, result *installer.UninstallResult, dryRun bool) {
	out := cmd.OutOrStdout()

	for _, p := range result.Removed {
		_, _ = fmt.Fprintf(out, "  %s %s\n", symSuccess(), p)
	}
	for _, p := range result.Kept {
		_, _ = fmt.Fprintf(out, "  %s %s %s\n", symWarning(), p, cliMuted.Render("(kept)"))
	}
	for _, d := range result.Pruned {
		_, _ = fmt.Fprintf(out, "  %s %s %s\n", symBullet(), d+"/", cliMuted.Render("(empty, pruned)"))
	}

	pairs := []kvPair{
		{"Removed", fmt.Sprintf("%d", len(result.Removed))},
		{"Kept", fmt.Sprintf("%d", len(result.Kept))},
		{"Pruned dirs", fmt.Sprintf("%d", len(result.Pruned))},
	}

	title := "Satchel removed"
	if dryRun {
		title = "Uninstall plan (dry run)"
	}
	details := []string{renderKeyValueLines(pairs)}
	if result.GitignoreRestored {
		details = append(details, cliMuted.Render(".gitignore: satchel block removed"))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(title, details...))
}
