package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/ignore"
	"github.com/satchel-sh/satchel/internal/installer"
	"github.com/satchel-sh/satchel/internal/manifest"
	"github.com/satchel-sh/satchel/internal/merge"
	"github.com/satchel-sh/satchel/internal/schema"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [target-dir]",
	Short: "Check an installation for problems",
	Long: `Check a satchel installation: manifest integrity, drift of every
tracked file, frontmatter of the installed agents and commands, and the
.gitignore block.

Exits non-zero when a problem is found. Local edits to managed files
are reported but are not failures.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// checkResult is one doctor finding.
type checkResult struct {
	ok      bool
	warning bool
	label   string
	detail  string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	target, err := targetDirArg(args)
	if err != nil {
		return err
	}

	results := runChecks(target)

	out := cmd.OutOrStdout()
	problems := 0
	warnings := 0
	for _, r := range results {
		sym := symSuccess()
		switch {
		case !r.ok:
			sym = symError()
			problems++
		case r.warning:
			sym = symWarning()
			warnings++
		}
		line := fmt.Sprintf("  %s %s", sym, r.label)
		if r.detail != "" {
			line += " " + cliMuted.Render(r.detail)
		}
		_, _ = fmt.Fprintln(out, line)
	}

	_, _ = fmt.Fprintln(out)
	switch {
	case problems > 0:
		return fmt.Errorf("doctor found %d problem(s)", problems)
	case warnings > 0:
		_, _ = fmt.Fprintln(out, cliWarn.Render(fmt.Sprintf("Healthy with %d note(s).", warnings)))
	default:
		_, _ = fmt.Fprintln(out, cliSuccess.Render("Everything looks good."))
	}
	return nil
}

func runChecks(target string) []checkResult {
	var results []checkResult

	mgr := manifest.NewManager()
	found, err := mgr.Load(target)
	switch {
	case errors.Is(err, manifest.ErrCorruptManifest):
		return append(results, checkResult{ok: false, label: "manifest", detail: err.Error()})
	case err != nil:
		return append(results, checkResult{ok: false, label: "manifest", detail: err.Error()})
	case !found:
		return append(results, checkResult{ok: false, label: "manifest",
			detail: fmt.Sprintf("%v; run \"satchel install\"", installer.ErrNotInstalled)})
	}
	results = append(results, checkResult{ok: true, label: "manifest", detail: mgr.Path()})

	results = append(results, checkDrift(target, mgr)...)
	results = append(results, checkSchemas(target, mgr)...)
	results = append(results, checkGitignore(target))

	return results
}

// checkDrift reports the state of every tracked file.
func checkDrift(target string, mgr manifest.Manager) []checkResult {
	var results []checkResult
	for _, entry := range mgr.Entries() {
		drift, err := merge.ClassifyFile(target, entry.Path, mgr)
		if err != nil {
			results = append(results, checkResult{ok: false, label: entry.Path, detail: err.Error()})
			continue
		}
		switch drift {
		case merge.DriftPristine:
			results = append(results, checkResult{ok: true, label: entry.Path})
		case merge.DriftModified:
			if entry.Provenance == manifest.BundleManaged {
				results = append(results, checkResult{ok: true, warning: true, label: entry.Path, detail: "edited locally"})
			} else {
				results = append(results, checkResult{ok: true, label: entry.Path, detail: string(entry.Provenance)})
			}
		case merge.DriftMissing:
			if entry.Provenance == manifest.BundleManaged {
				results = append(results, checkResult{ok: false, label: entry.Path,
					detail: "tracked but missing; run \"satchel update\""})
			} else {
				results = append(results, checkResult{ok: true, warning: true, label: entry.Path, detail: "missing"})
			}
		}
	}
	return results
}

// checkSchemas validates the frontmatter of installed agents and commands.
func checkSchemas(target string, mgr manifest.Manager) []checkResult {
	var results []checkResult
	for _, entry := range mgr.Entries() {
		slashed := filepath.ToSlash(entry.Path)
		isAgent := strings.HasPrefix(slashed, defs.ClaudeDir+"/"+defs.AgentsDir+"/")
		isCommand := strings.HasPrefix(slashed, defs.ClaudeDir+"/"+defs.CommandsDir+"/")
		if (!isAgent && !isCommand) || !strings.HasSuffix(slashed, ".md") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(target, filepath.FromSlash(entry.Path)))
		if err != nil {
			// Missing files are reported by the drift check.
			continue
		}

		label := "schema " + entry.Path
		var schemaErr error
		if isAgent {
			agent, err := schema.ParseAgent(data)
			if err == nil {
				err = agent.Validate()
			}
			schemaErr = err
		} else {
			command, err := schema.ParseCommand(data)
			if err == nil {
				err = command.Validate()
			}
			schemaErr = err
		}
		if schemaErr != nil {
			results = append(results, checkResult{ok: false, label: label, detail: schemaErr.Error()})
			continue
		}
		results = append(results, checkResult{ok: true, label: label})
	}
	return results
}

// checkGitignore verifies the managed block is present.
func checkGitignore(target string) checkResult {
	path := filepath.Join(target, defs.GitignoreFile)
	if ignore.HasBlock(path) {
		return checkResult{ok: true, label: defs.GitignoreFile, detail: "satchel block present"}
	}
	return checkResult{ok: true, warning: true, label: defs.GitignoreFile,
		detail: "satchel block missing; run \"satchel install\" to restore it"}
}
