package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command with the given args and returns the
// combined output. Flag values are reset afterwards so tests stay
// independent.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	defer resetCommandFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetCommandFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetCommandFlags(sub)
	}
}

func mustExist(t *testing.T, root string, rel string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
		t.Errorf("expected %s to exist: %v", rel, err)
	}
}

func mustNotExist(t *testing.T, root string, rel string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent", rel)
	}
}

func TestInstallCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "install", dir)
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	mustExist(t, dir, ".claude/agents/research.md")
	mustExist(t, dir, ".claude/commands/implement.md")
	mustExist(t, dir, ".claude/settings.json")
	mustExist(t, dir, "CLAUDE.md")
	mustExist(t, dir, "memories/README.md")
	mustExist(t, dir, ".satchel/manifest.json")

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if !strings.Contains(string(gitignore), ".satchel/") {
		t.Errorf(".gitignore missing satchel entry:\n%s", gitignore)
	}

	if !strings.Contains(out, "Satchel installed") {
		t.Errorf("missing success card in output:\n%s", out)
	}
}

func TestInstallDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "install", dir, "--dry-run")
	if err != nil {
		t.Fatalf("install --dry-run: %v\n%s", err, out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created files: %v", entries)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("expected dry run notice in output:\n%s", out)
	}
	// Headless progress lines must follow the command's writer, not
	// os.Stdout.
	if !strings.Contains(out, "[13/13]") {
		t.Errorf("expected progress lines in command output:\n%s", out)
	}
}

func TestInstallClaudeOnly(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCLI(t, "install", dir, "--claude-only"); err != nil {
		t.Fatalf("install --claude-only: %v", err)
	}

	mustExist(t, dir, ".claude/agents/research.md")
	mustExist(t, dir, "CLAUDE.md")
	mustNotExist(t, dir, "memories")
}

func TestInstallPreservesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := "# my own instructions\n"
	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "install", dir)
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	got, err := os.ReadFile(filepath.Join(dir, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != custom {
		t.Errorf("existing CLAUDE.md was overwritten")
	}
}

func TestListBundle(t *testing.T) {
	out, err := runCLI(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	for _, want := range []string{"Agents", "Commands", "research", "/implement", "/plan"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestListInstalled(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "list", dir, "--installed")
	if err != nil {
		t.Fatalf("list --installed: %v", err)
	}
	if !strings.Contains(out, ".claude/agents/research.md") {
		t.Errorf("missing tracked file in output:\n%s", out)
	}
	if !strings.Contains(out, "pristine") {
		t.Errorf("expected pristine drift state:\n%s", out)
	}
}

func TestListInstalledWithoutInstall(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "list", dir, "--installed"); err == nil {
		t.Fatal("expected error for uninstalled target")
	}
}

func TestPeekRaw(t *testing.T) {
	out, err := runCLI(t, "peek", "research", "--raw")
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if !strings.Contains(out, "name: research") {
		t.Errorf("raw peek missing frontmatter:\n%s", out)
	}
}

func TestPeekDisambiguation(t *testing.T) {
	// "research" exists as both an agent and a command.
	agentOut, err := runCLI(t, "peek", "agent/research", "--raw")
	if err != nil {
		t.Fatalf("peek agent/research: %v", err)
	}
	cmdOut, err := runCLI(t, "peek", "command/research", "--raw")
	if err != nil {
		t.Fatalf("peek command/research: %v", err)
	}
	if agentOut == cmdOut {
		t.Error("agent and command peek returned identical content")
	}
}

func TestPeekUnknownName(t *testing.T) {
	if _, err := runCLI(t, "peek", "no-such-thing"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestDoctorHealthyInstall(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor", dir)
	if err != nil {
		t.Fatalf("doctor on healthy install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Everything looks good.") {
		t.Errorf("expected healthy summary:\n%s", out)
	}
}

func TestDoctorNotInstalled(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "doctor", dir); err == nil {
		t.Fatal("expected error for uninstalled target")
	}
}

func TestDoctorReportsMissingManagedFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, ".claude", "settings.json")); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor", dir)
	if err == nil {
		t.Fatalf("expected doctor to fail:\n%s", out)
	}
	if !strings.Contains(out, "missing") {
		t.Errorf("expected missing-file report:\n%s", out)
	}
}

func TestDoctorFlagsInvalidFrontmatter(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	broken := "---\nname: research\n---\n\nbody without a description\n"
	agent := filepath.Join(dir, ".claude", "agents", "research.md")
	if err := os.WriteFile(agent, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor", dir)
	if err == nil {
		t.Fatalf("expected doctor to fail on invalid frontmatter:\n%s", out)
	}
	if !strings.Contains(out, "schema .claude/agents/research.md") {
		t.Errorf("expected schema finding in output:\n%s", out)
	}
}

func TestUninstallCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "uninstall", dir, "--yes")
	if err != nil {
		t.Fatalf("uninstall: %v\n%s", err, out)
	}

	mustNotExist(t, dir, ".claude")
	mustNotExist(t, dir, "CLAUDE.md")
	mustNotExist(t, dir, ".satchel")
	if !strings.Contains(out, "Satchel removed") {
		t.Errorf("missing success card:\n%s", out)
	}
}

func TestUninstallKeepsEditedFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	edited := filepath.Join(dir, ".claude", "agents", "research.md")
	if err := os.WriteFile(edited, []byte("# edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "uninstall", dir, "--yes")
	if err != nil {
		t.Fatalf("uninstall: %v\n%s", err, out)
	}

	if _, err := os.Stat(edited); err != nil {
		t.Error("edited file should survive uninstall without --force")
	}
}

func TestUpdateKeepsEditedFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	edited := filepath.Join(dir, ".claude", "commands", "plan.md")
	content := "# my custom plan command\n"
	if err := os.WriteFile(edited, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "update", dir)
	if err != nil {
		t.Fatalf("update: %v\n%s", err, out)
	}

	got, err := os.ReadFile(edited)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Error("update replaced a locally edited file")
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected kept report:\n%s", out)
	}
}

func TestUpdateDiffFlag(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "install", dir); err != nil {
		t.Fatal(err)
	}

	edited := filepath.Join(dir, ".claude", "commands", "plan.md")
	if err := os.WriteFile(edited, []byte("totally different\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "update", dir, "--diff")
	if err != nil {
		t.Fatalf("update --diff: %v\n%s", err, out)
	}
	if !strings.Contains(out, "+totally different") {
		t.Errorf("expected unified diff in output:\n%s", out)
	}
}

func TestInstallMissingTarget(t *testing.T) {
	if _, err := runCLI(t, "install", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing target directory")
	}
}
