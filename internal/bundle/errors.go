package bundle

import "errors"

var (
	// ErrTemplateNotFound is returned when a named bundle file is absent
	// from the embedded filesystem.
	ErrTemplateNotFound = errors.New("bundle: template not found")

	// ErrMissingTemplateKey is returned when a template references a
	// context field that has no value (strict mode).
	ErrMissingTemplateKey = errors.New("bundle: missing template key")

	// ErrUnexpandedToken is returned when rendered output still contains
	// dynamic tokens, which means the context was incomplete.
	ErrUnexpandedToken = errors.New("bundle: unexpanded token in rendered output")

	// ErrPathTraversal is returned when a bundle path would escape the
	// target project root.
	ErrPathTraversal = errors.New("bundle: path escapes project root")
)
