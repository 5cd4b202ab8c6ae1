package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFrontmatter extracts YAML frontmatter into a typed struct and
// returns the markdown body. Content without a frontmatter block is
// returned unchanged with the target left zero-valued.
func ParseFrontmatter[T any](content []byte, target *T) (string, error) {
	text := string(content)

	if !strings.HasPrefix(text, "---") {
		return text, nil
	}

	rest := strings.TrimPrefix(text[3:], "\n")

	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return text, nil
	}

	yamlContent := rest[:idx]
	body := strings.TrimPrefix(rest[idx+4:], "\n")

	if err := yaml.Unmarshal([]byte(yamlContent), target); err != nil {
		return "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return body, nil
}

// SerializeFrontmatter renders a frontmatter value and body back into a
// markdown document with a `---` fenced YAML header.
func SerializeFrontmatter(fm any, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}

	var result strings.Builder
	result.WriteString("---\n")
	result.Write(yamlBytes)
	result.WriteString("---\n")
	if body != "" {
		result.WriteString("\n")
		result.WriteString(body)
	}

	return []byte(result.String()), nil
}

// HasFrontmatter reports whether content starts with a closed `---` block.
func HasFrontmatter(content []byte) bool {
	text := string(content)
	if !strings.HasPrefix(text, "---") {
		return false
	}
	rest := strings.TrimPrefix(text[3:], "\n")
	return strings.Contains(rest, "\n---")
}
