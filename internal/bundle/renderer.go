package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"text/template"
)

// Renderer renders .tmpl bundle files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the bundle FS and executes it
	// with the given data. Returns ErrMissingTemplateKey if a key is
	// missing and ErrUnexpandedToken if tokens remain after rendering.
	Render(templateName string, data any) ([]byte, error)
}

// renderFuncs are the helper functions available to bundle templates.
// settings.json.tmpl uses both: context values land inside JSON strings,
// and ProjectRoot carries backslashes on Windows.
var renderFuncs = template.FuncMap{
	"jsonEscape": jsonEscape,
	"posixPath": func(s string) string {
		return strings.ReplaceAll(s, "\\", "/")
	},
}

// jsonEscape escapes a string for embedding inside a JSON string value.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b[1 : len(b)-1])
}

type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	src, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(path.Base(templateName)).
		Funcs(renderFuncs).
		Option("missingkey=error").
		Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	out := buf.Bytes()
	if tok := leftoverToken(out); tok != "" {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, tok, templateName)
	}
	return out, nil
}

// tokenPattern matches dynamic tokens that should not survive rendering:
// ${VAR}, {{VAR}}, and bare $VAR.
var tokenPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}|\$[A-Z_][A-Z0-9_]*`)

// runtimeTokens are expanded by Claude Code when a command runs, so they
// are expected to survive rendering verbatim.
var runtimeTokens = []string{
	"$CLAUDE_PROJECT_DIR",
	"$ARGUMENTS",
}

// leftoverToken returns the first unexpanded token in rendered output,
// ignoring the Claude Code runtime variables.
func leftoverToken(rendered []byte) string {
	s := string(rendered)
	for _, tok := range runtimeTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	return tokenPattern.FindString(s)
}
