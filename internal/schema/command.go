package schema

import (
	"fmt"
	"strings"
)

// Command represents a Claude Code slash command at .claude/commands/<name>.md.
// The file name (without extension) is the command name; frontmatter carries
// the metadata Claude Code reads.
type Command struct {
	Description string `yaml:"description"`

	// AllowedTools lists tools the command may use without prompting.
	AllowedTools []string `yaml:"allowed-tools,omitempty"`

	// ArgumentHint is shown in the slash-command picker (e.g. "[topic]").
	ArgumentHint string `yaml:"argument-hint,omitempty"`

	Model string `yaml:"model,omitempty"`

	// Body is the instruction template (not part of the frontmatter).
	Body string `yaml:"-"`
}

// ParseCommand parses a slash command file.
func ParseCommand(content []byte) (*Command, error) {
	var c Command
	body, err := ParseFrontmatter(content, &c)
	if err != nil {
		return nil, err
	}
	c.Body = body
	return &c, nil
}

// Validate checks the fields Claude Code requires of a command definition.
func (c *Command) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("%w: command has no description", ErrInvalidFrontmatter)
	}
	if strings.TrimSpace(c.Body) == "" {
		return fmt.Errorf("%w: command has an empty instruction body", ErrInvalidFrontmatter)
	}
	return nil
}

// Serialize returns the command as a markdown document with frontmatter.
func (c *Command) Serialize() ([]byte, error) {
	fm := &commandFrontmatter{
		Description:  c.Description,
		AllowedTools: c.AllowedTools,
		ArgumentHint: c.ArgumentHint,
		Model:        c.Model,
	}
	return SerializeFrontmatter(fm, c.Body)
}

// commandFrontmatter controls YAML field ordering.
type commandFrontmatter struct {
	Description  string   `yaml:"description"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
	ArgumentHint string   `yaml:"argument-hint,omitempty"`
	Model        string   `yaml:"model,omitempty"`
}
