package schema

import "errors"

// ErrInvalidFrontmatter is returned when an agent or command file is
// missing fields Claude Code requires.
var ErrInvalidFrontmatter = errors.New("schema: invalid frontmatter")
