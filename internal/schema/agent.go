package schema

import (
	"fmt"
	"strings"
)

// Agent represents a Claude Code agent persona at .claude/agents/<name>.md.
type Agent struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Tools is the comma-separated tool allowlist; empty inherits all tools.
	Tools string `yaml:"tools,omitempty"`

	// Model is the model alias the agent runs on (e.g. "sonnet", "opus").
	Model string `yaml:"model,omitempty"`

	// Body is the markdown prompt (not part of the frontmatter).
	Body string `yaml:"-"`
}

// ParseAgent parses an agent persona file.
func ParseAgent(content []byte) (*Agent, error) {
	var a Agent
	body, err := ParseFrontmatter(content, &a)
	if err != nil {
		return nil, err
	}
	a.Body = body
	return &a, nil
}

// Validate checks the fields Claude Code requires of an agent definition.
func (a *Agent) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: agent name is required", ErrInvalidFrontmatter)
	}
	if strings.Contains(a.Name, " ") {
		return fmt.Errorf("%w: agent name %q must not contain spaces", ErrInvalidFrontmatter, a.Name)
	}
	if strings.TrimSpace(a.Description) == "" {
		return fmt.Errorf("%w: agent %q has no description", ErrInvalidFrontmatter, a.Name)
	}
	if strings.TrimSpace(a.Body) == "" {
		return fmt.Errorf("%w: agent %q has an empty prompt body", ErrInvalidFrontmatter, a.Name)
	}
	return nil
}

// ToolList splits the Tools field into individual tool names.
func (a *Agent) ToolList() []string {
	if strings.TrimSpace(a.Tools) == "" {
		return nil
	}
	parts := strings.Split(a.Tools, ",")
	tools := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// Serialize returns the agent as a markdown document with frontmatter.
func (a *Agent) Serialize() ([]byte, error) {
	fm := &agentFrontmatter{
		Name:        a.Name,
		Description: a.Description,
		Tools:       a.Tools,
		Model:       a.Model,
	}
	return SerializeFrontmatter(fm, a.Body)
}

// agentFrontmatter controls YAML field ordering.
type agentFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tools       string `yaml:"tools,omitempty"`
	Model       string `yaml:"model,omitempty"`
}
