package installer

import "errors"

var (
	// ErrNoTargetDir is returned when the install target does not exist.
	ErrNoTargetDir = errors.New("installer: target directory does not exist")

	// ErrNotInstalled is returned when uninstall finds no manifest.
	ErrNotInstalled = errors.New("installer: no satchel installation found")
)
