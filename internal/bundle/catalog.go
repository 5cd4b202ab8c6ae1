package bundle

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/satchel-sh/satchel/internal/defs"
	"github.com/satchel-sh/satchel/internal/schema"
)

// ItemKind distinguishes the asset types the bundle ships.
type ItemKind string

const (
	// KindAgent is an agent persona under .claude/agents/.
	KindAgent ItemKind = "agent"
	// KindCommand is a slash command under .claude/commands/.
	KindCommand ItemKind = "command"
)

// Item is one agent or command in the bundle, parsed enough to list.
type Item struct {
	Kind        ItemKind
	Name        string // file name without extension
	Path        string // bundle-relative path
	Description string
}

// ErrItemNotFound is returned when Find cannot resolve a name.
var ErrItemNotFound = fmt.Errorf("bundle: no such agent or command")

// Catalog parses the agents and commands in the bundle FS, sorted by
// kind then name.
func Catalog(fsys fs.FS) ([]Item, error) {
	var items []Item

	agents, err := readDirItems(fsys, path.Join(defs.ClaudeDir, defs.AgentsDir), KindAgent)
	if err != nil {
		return nil, err
	}
	items = append(items, agents...)

	commands, err := readDirItems(fsys, path.Join(defs.ClaudeDir, defs.CommandsDir), KindCommand)
	if err != nil {
		return nil, err
	}
	items = append(items, commands...)

	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func readDirItems(fsys fs.FS, dir string, kind ItemKind) ([]Item, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("bundle catalog %q: %w", dir, err)
	}

	var items []Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		filePath := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("bundle catalog read %q: %w", filePath, err)
		}

		item := Item{
			Kind: kind,
			Name: strings.TrimSuffix(e.Name(), ".md"),
			Path: filePath,
		}
		switch kind {
		case KindAgent:
			agent, err := schema.ParseAgent(data)
			if err != nil {
				return nil, fmt.Errorf("bundle catalog %q: %w", filePath, err)
			}
			item.Description = agent.Description
		case KindCommand:
			cmd, err := schema.ParseCommand(data)
			if err != nil {
				return nil, fmt.Errorf("bundle catalog %q: %w", filePath, err)
			}
			item.Description = cmd.Description
		}
		items = append(items, item)
	}
	return items, nil
}

// Find resolves an agent or command by name and returns it with its raw
// content. Agents win when both kinds share a name; disambiguate with
// "agent/<name>" or "command/<name>".
func Find(fsys fs.FS, name string) (Item, []byte, error) {
	wantKind := ItemKind("")
	if kind, rest, ok := strings.Cut(name, "/"); ok {
		switch kind {
		case "agent":
			wantKind = KindAgent
		case "command":
			wantKind = KindCommand
		default:
			return Item{}, nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
		}
		name = rest
	}

	items, err := Catalog(fsys)
	if err != nil {
		return Item{}, nil, err
	}
	for _, item := range items {
		if item.Name != name {
			continue
		}
		if wantKind != "" && item.Kind != wantKind {
			continue
		}
		data, err := fs.ReadFile(fsys, item.Path)
		if err != nil {
			return Item{}, nil, fmt.Errorf("bundle read %q: %w", item.Path, err)
		}
		return item, data, nil
	}
	return Item{}, nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}
