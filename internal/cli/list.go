package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/assets"
	"github.com/satchel-sh/satchel/internal/bundle"
	"github.com/satchel-sh/satchel/internal/installer"
	"github.com/satchel-sh/satchel/internal/manifest"
	"github.com/satchel-sh/satchel/internal/merge"
)

var listCmd = &cobra.Command{
	Use:   "list [target-dir]",
	Short: "List the bundled agents and commands",
	Long: `List the agent personas and slash commands shipped in this binary.

With --installed, list the files an installation tracks instead, along
with whether each one is still pristine, edited locally, or missing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("installed", false, "List the files tracked by an installation instead of the bundle contents")
}

func runList(cmd *cobra.Command, args []string) error {
	if getBoolFlag(cmd, "installed") {
		return listInstalled(cmd, args)
	}
	return listBundle(cmd)
}

func listBundle(cmd *cobra.Command) error {
	fsys, err := assets.Bundle()
	if err != nil {
		return err
	}
	items, err := bundle.Catalog(fsys)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	var lastKind bundle.ItemKind
	for _, item := range items {
		if item.Kind != lastKind {
			if lastKind != "" {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintln(w, cliTitle.Render(sectionTitle(item.Kind)))
			lastKind = item.Kind
		}
		name := item.Name
		if item.Kind == bundle.KindCommand {
			name = "/" + name
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cliMuted.Render(item.Description))
	}
	return w.Flush()
}

func sectionTitle(kind bundle.ItemKind) string {
	switch kind {
	case bundle.KindAgent:
		return "Agents"
	case bundle.KindCommand:
		return "Commands"
	}
	return string(kind)
}

func listInstalled(cmd *cobra.Command, args []string) error {
	target, err := targetDirArg(args)
	if err != nil {
		return err
	}

	mgr := manifest.NewManager()
	found, err := mgr.Load(target)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w in %s", installer.ErrNotInstalled, target)
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, entry := range mgr.Entries() {
		drift, err := merge.ClassifyFile(target, entry.Path, mgr)
		if err != nil {
			drift = merge.Drift("error")
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n",
			entry.Path,
			cliMuted.Render(string(entry.Provenance)),
			renderDrift(drift),
		)
	}
	return w.Flush()
}

func renderDrift(d merge.Drift) string {
	switch d {
	case merge.DriftPristine:
		return cliSuccess.Render(string(d))
	case merge.DriftModified:
		return cliWarn.Render(string(d))
	case merge.DriftMissing:
		return cliError.Render(string(d))
	default:
		return cliMuted.Render(string(d))
	}
}
