// Package ignore maintains a managed block inside the target project's
// .gitignore. The block is fenced by marker comments so repeated installs
// are idempotent and uninstall can remove exactly what was added.
package ignore

import (
	"fmt"
	"os"
	"strings"
)

const (
	// BeginMarker opens the satchel-managed block.
	BeginMarker = "# >>> satchel >>>"
	// EndMarker closes the satchel-managed block.
	EndMarker = "# <<< satchel <<<"
)

// DefaultEntries are the ignore patterns the installer maintains.
var DefaultEntries = []string{
	".satchel/",
	".claude/settings.local.json",
}

// Block renders the managed block for the given entries.
func Block(entries []string) string {
	var sb strings.Builder
	sb.WriteString(BeginMarker + "\n")
	for _, e := range entries {
		sb.WriteString(e + "\n")
	}
	sb.WriteString(EndMarker + "\n")
	return sb.String()
}

// Ensure makes the managed block in the file at path contain exactly
// entries, creating the file if needed. It reports whether the file
// changed. Content outside the markers is never touched.
func Ensure(path string, entries []string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("ignore read %q: %w", path, err)
	}

	updated := upsertBlock(string(existing), entries)
	if updated == string(existing) {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("ignore write %q: %w", path, err)
	}
	return true, nil
}

// Remove deletes the managed block from the file at path. It reports
// whether the file changed. A missing file is not an error.
func Remove(path string) (bool, error) {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ignore read %q: %w", path, err)
	}

	stripped, found := stripBlock(string(existing))
	if !found {
		return false, nil
	}

	if strings.TrimSpace(stripped) == "" {
		// Nothing of the user's remains; drop the file entirely.
		if err := os.Remove(path); err != nil {
			return false, fmt.Errorf("ignore remove %q: %w", path, err)
		}
		return true, nil
	}

	if err := os.WriteFile(path, []byte(stripped), 0o644); err != nil {
		return false, fmt.Errorf("ignore write %q: %w", path, err)
	}
	return true, nil
}

// HasBlock reports whether the file at path contains the managed block.
func HasBlock(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), BeginMarker)
}

// upsertBlock replaces an existing managed block or appends a new one.
func upsertBlock(content string, entries []string) string {
	block := Block(entries)

	stripped, found := stripBlock(content)
	if found {
		content = stripped
	}

	if content == "" {
		return block
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	// Blank line between user content and the block.
	if !strings.HasSuffix(content, "\n\n") {
		content += "\n"
	}
	return content + block
}

// stripBlock removes the managed block (markers included) and reports
// whether one was found.
func stripBlock(content string) (string, bool) {
	begin := strings.Index(content, BeginMarker)
	if begin == -1 {
		return content, false
	}
	end := strings.Index(content[begin:], EndMarker)
	if end == -1 {
		// Unterminated block: cut to end of file.
		return strings.TrimRight(content[:begin], "\n") + "\n", true
	}
	after := content[begin+end+len(EndMarker):]
	after = strings.TrimPrefix(after, "\n")

	before := content[:begin]
	before = strings.TrimRight(before, "\n")
	if before == "" {
		return after, true
	}
	if after == "" {
		return before + "\n", true
	}
	return before + "\n\n" + after, true
}
