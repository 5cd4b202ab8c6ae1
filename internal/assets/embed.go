// Package assets carries the distributable bundle compiled into the
// binary: the .claude/ configuration, CLAUDE.md, and the memories/ tree.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

// The all: prefix is required because .claude/ starts with a dot, which
// go:embed skips by default.
//
//go:embed all:bundle
var bundleFS embed.FS

// Bundle returns the embedded bundle rooted at its top level, so that
// walking "." yields .claude/..., CLAUDE.md.tmpl, memories/...
func Bundle() (fs.FS, error) {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		return nil, fmt.Errorf("assets: bundle sub-fs: %w", err)
	}
	return sub, nil
}
