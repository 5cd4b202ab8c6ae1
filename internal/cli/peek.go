package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/assets"
	"github.com/satchel-sh/satchel/internal/bundle"
)

var peekCmd = &cobra.Command{
	Use:   "peek <name>",
	Short: "Show a bundled agent or command before installing",
	Long: `Render a bundled agent persona or slash command to the terminal.

Agents win when both kinds share a name; disambiguate with a prefix:

  satchel peek research
  satchel peek agent/review
  satchel peek command/implement

Use --raw to print the file verbatim, frontmatter included.`,
	Args: cobra.ExactArgs(1),
	RunE: runPeek,
}

func init() {
	rootCmd.AddCommand(peekCmd)

	peekCmd.Flags().Bool("raw", false, "Print the raw markdown instead of rendering it")
}

func runPeek(cmd *cobra.Command, args []string) error {
	fsys, err := assets.Bundle()
	if err != nil {
		return err
	}

	item, data, err := bundle.Find(fsys, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if getBoolFlag(cmd, "raw") {
		_, _ = out.Write(data)
		return nil
	}

	header := fmt.Sprintf("%s %s", cliTitle.Render(item.Name), cliMuted.Render("("+string(item.Kind)+")"))
	_, _ = fmt.Fprintln(out, header)
	if item.Description != "" {
		_, _ = fmt.Fprintln(out, cliMuted.Render(item.Description))
	}
	_, _ = fmt.Fprintln(out)

	rendered, err := renderMarkdown(string(data))
	if err != nil {
		// Rendering is cosmetic; fall back to the raw content.
		_, _ = out.Write(data)
		return nil
	}
	_, _ = fmt.Fprint(out, rendered)
	return nil
}

// renderMarkdown renders markdown for the terminal, degrading to plain
// notty style when stdout is not a terminal.
func renderMarkdown(content string) (string, error) {
	style := glamour.WithAutoStyle()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
