package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether the CLI may draw interactive UI
// (progress bars, confirmation prompts) or must fall back to plain
// log lines.
type HeadlessManager struct {
	forced *bool
}

// NewHeadlessManager creates a HeadlessManager using TTY detection.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{}
}

// IsHeadless returns true when the UI should operate in headless mode.
// A forced override wins; otherwise CI environments and missing TTYs
// are headless.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if os.Getenv("CI") != "" {
		return true
	}
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ForceHeadless overrides TTY detection. Pass true to force headless
// mode, or false to force interactive mode regardless of TTY state.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}
