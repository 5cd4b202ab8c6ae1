package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel: a distributable agent workflow bundle for Claude Code",
	Long: `Satchel ships a research / plan / implement / review workflow for
Claude Code as a single binary: agent personas, slash commands, project
settings, and the memories/ documentation convention.

Run "satchel install" inside a repository to set it up, "satchel update"
after upgrading satchel, and "satchel uninstall" to remove it again.
Existing files are never overwritten unless you ask for it.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verboseFlag bool

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, cliError.Render("Error: ")+err.Error())
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("satchel %s\n", version.GetVersion()))
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose logging to stderr")
}

// newLogger returns the logger commands pass into the installer layer.
// Silent unless --verbose is set.
func newLogger() *slog.Logger {
	if verboseFlag {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// targetDirArg resolves the optional positional target directory,
// defaulting to the current directory.
func targetDirArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "." {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}
