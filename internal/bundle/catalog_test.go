package bundle

import (
	"errors"
	"testing"
	"testing/fstest"
)

func catalogFS() fstest.MapFS {
	return fstest.MapFS{
		".claude/agents/research.md": &fstest.MapFile{
			Data: []byte("---\nname: research\ndescription: Dig through code\n---\n\n# R\n"),
		},
		".claude/agents/review.md": &fstest.MapFile{
			Data: []byte("---\nname: review\ndescription: Review diffs\n---\n\n# V\n"),
		},
		".claude/commands/research.md": &fstest.MapFile{
			Data: []byte("---\ndescription: Run the research agent\n---\n\nDo it.\n"),
		},
	}
}

func TestCatalog(t *testing.T) {
	items, err := Catalog(catalogFS())
	if err != nil {
		t.Fatalf("Catalog error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}

	// Agents sort before commands, names alphabetical within kind.
	if items[0].Kind != KindAgent || items[0].Name != "research" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Kind != KindAgent || items[1].Name != "review" {
		t.Errorf("items[1] = %+v", items[1])
	}
	if items[2].Kind != KindCommand || items[2].Name != "research" {
		t.Errorf("items[2] = %+v", items[2])
	}
	if items[0].Description != "Dig through code" {
		t.Errorf("description = %q", items[0].Description)
	}
}

func TestFind(t *testing.T) {
	fsys := catalogFS()

	t.Run("agent_wins_on_ambiguous_name", func(t *testing.T) {
		item, data, err := Find(fsys, "research")
		if err != nil {
			t.Fatalf("Find error: %v", err)
		}
		if item.Kind != KindAgent {
			t.Errorf("Kind = %v, want agent", item.Kind)
		}
		if len(data) == 0 {
			t.Error("empty content")
		}
	})

	t.Run("explicit_kind_prefix", func(t *testing.T) {
		item, _, err := Find(fsys, "command/research")
		if err != nil {
			t.Fatalf("Find error: %v", err)
		}
		if item.Kind != KindCommand {
			t.Errorf("Kind = %v, want command", item.Kind)
		}
	})

	t.Run("unknown_name", func(t *testing.T) {
		_, _, err := Find(fsys, "doctor-strange")
		if !errors.Is(err, ErrItemNotFound) {
			t.Errorf("error = %v, want ErrItemNotFound", err)
		}
	})

	t.Run("unknown_kind_prefix", func(t *testing.T) {
		_, _, err := Find(fsys, "skill/research")
		if !errors.Is(err, ErrItemNotFound) {
			t.Errorf("error = %v, want ErrItemNotFound", err)
		}
	})
}
