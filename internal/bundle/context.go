package bundle

import (
	"runtime"
	"time"
)

// Context provides data for rendering .tmpl bundle files during install.
// All fields are exported for use with Go's text/template package.
type Context struct {
	ProjectName string
	ProjectRoot string
	UserName    string

	Version     string // satchel version that performed the install
	Platform    string // "darwin", "linux", "windows"
	InstalledAt string // RFC 3339 timestamp of the install
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// NewContext creates a Context with platform and timestamp defaults,
// then applies any provided options.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		Platform:    runtime.GOOS,
		InstalledAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithProject sets project-related fields.
func WithProject(name, root string) ContextOption {
	return func(c *Context) {
		c.ProjectName = name
		c.ProjectRoot = root
	}
}

// WithUser sets the user display name.
func WithUser(name string) ContextOption {
	return func(c *Context) {
		c.UserName = name
	}
}

// WithVersion sets the satchel version.
func WithVersion(version string) ContextOption {
	return func(c *Context) {
		c.Version = version
	}
}

// WithInstalledAt overrides the install timestamp (used in tests).
func WithInstalledAt(timestamp string) ContextOption {
	return func(c *Context) {
		c.InstalledAt = timestamp
	}
}
