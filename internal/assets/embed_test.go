package assets

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/satchel-sh/satchel/internal/bundle"
	"github.com/satchel-sh/satchel/internal/schema"
)

func TestBundleContents(t *testing.T) {
	fsys, err := Bundle()
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}

	// Every file the installer promises must be embedded.
	required := []string{
		".claude/agents/research.md",
		".claude/agents/review.md",
		".claude/agents/plan.md",
		".claude/commands/research.md",
		".claude/commands/plan.md",
		".claude/commands/implement.md",
		".claude/commands/review.md",
		".claude/settings.json.tmpl",
		"CLAUDE.md.tmpl",
		"memories/README.md.tmpl",
		"memories/research/README.md",
		"memories/plans/README.md",
		"memories/reviews/README.md",
	}
	for _, path := range required {
		if _, err := fs.Stat(fsys, path); err != nil {
			t.Errorf("missing embedded file %q: %v", path, err)
		}
	}
}

func TestSettingsTemplateRendersValidJSON(t *testing.T) {
	fsys, err := Bundle()
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}

	// Quote in the project name and backslashes in the root exercise the
	// jsonEscape and posixPath template funcs.
	ctx := bundle.NewContext(
		bundle.WithProject(`my "quoted" project`, `C:\work\demo`),
		bundle.WithVersion("v1.0.0"),
	)
	out, err := bundle.NewRenderer(fsys).Render(".claude/settings.json.tmpl", ctx)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	var settings struct {
		Env         map[string]string `json:"env"`
		Permissions struct {
			Allow                 []string `json:"allow"`
			AdditionalDirectories []string `json:"additionalDirectories"`
		} `json:"permissions"`
	}
	if err := json.Unmarshal(out, &settings); err != nil {
		t.Fatalf("rendered settings are not valid JSON: %v\n%s", err, out)
	}
	if settings.Env["SATCHEL_PROJECT"] != `my "quoted" project` {
		t.Errorf("SATCHEL_PROJECT = %q", settings.Env["SATCHEL_PROJECT"])
	}
	if len(settings.Permissions.AdditionalDirectories) != 1 ||
		settings.Permissions.AdditionalDirectories[0] != "C:/work/demo/memories" {
		t.Errorf("additionalDirectories = %v", settings.Permissions.AdditionalDirectories)
	}
	if len(settings.Permissions.Allow) == 0 {
		t.Error("empty permission allowlist")
	}
}

func TestEmbeddedAgentsAreValid(t *testing.T) {
	fsys, err := Bundle()
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}

	entries, err := fs.ReadDir(fsys, ".claude/agents")
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded agents")
	}

	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			data, err := fs.ReadFile(fsys, ".claude/agents/"+e.Name())
			if err != nil {
				t.Fatalf("ReadFile error: %v", err)
			}
			agent, err := schema.ParseAgent(data)
			if err != nil {
				t.Fatalf("ParseAgent error: %v", err)
			}
			if err := agent.Validate(); err != nil {
				t.Errorf("Validate error: %v", err)
			}
			if agent.Name+".md" != e.Name() {
				t.Errorf("agent name %q does not match file %q", agent.Name, e.Name())
			}
		})
	}
}

func TestEmbeddedCommandsAreValid(t *testing.T) {
	fsys, err := Bundle()
	if err != nil {
		t.Fatalf("Bundle error: %v", err)
	}

	entries, err := fs.ReadDir(fsys, ".claude/commands")
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded commands")
	}

	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			if !strings.HasSuffix(e.Name(), ".md") {
				t.Fatalf("unexpected non-markdown command file %q", e.Name())
			}
			data, err := fs.ReadFile(fsys, ".claude/commands/"+e.Name())
			if err != nil {
				t.Fatalf("ReadFile error: %v", err)
			}
			cmd, err := schema.ParseCommand(data)
			if err != nil {
				t.Fatalf("ParseCommand error: %v", err)
			}
			if err := cmd.Validate(); err != nil {
				t.Errorf("Validate error: %v", err)
			}
		})
	}
}
