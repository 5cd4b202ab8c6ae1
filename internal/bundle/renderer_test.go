package bundle

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestRendererRender(t *testing.T) {
	fsys := fstest.MapFS{
		"CLAUDE.md.tmpl": &fstest.MapFile{
			Data: []byte("# {{.ProjectName}}\n\nInstalled with satchel {{.Version}}.\n"),
		},
		"bad-key.tmpl": &fstest.MapFile{
			Data: []byte("{{.NoSuchField}}"),
		},
		"leftover.tmpl": &fstest.MapFile{
			Data: []byte("export TOKEN=${SECRET_TOKEN}\n"),
		},
		"passthrough.tmpl": &fstest.MapFile{
			Data: []byte("Research $ARGUMENTS in $CLAUDE_PROJECT_DIR for {{.ProjectName}}.\n"),
		},
	}
	r := NewRenderer(fsys)
	ctx := NewContext(WithProject("demo", "/tmp/demo"), WithVersion("v1.2.3"))

	t.Run("renders_context_fields", func(t *testing.T) {
		out, err := r.Render("CLAUDE.md.tmpl", ctx)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(string(out), "# demo") || !strings.Contains(string(out), "v1.2.3") {
			t.Errorf("rendered output = %q", out)
		}
	})

	t.Run("missing_template", func(t *testing.T) {
		_, err := r.Render("nope.tmpl", ctx)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("missing_key_is_strict", func(t *testing.T) {
		_, err := r.Render("bad-key.tmpl", ctx)
		if !errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("error = %v, want ErrMissingTemplateKey", err)
		}
	})

	t.Run("unexpanded_token_rejected", func(t *testing.T) {
		_, err := r.Render("leftover.tmpl", ctx)
		if !errors.Is(err, ErrUnexpandedToken) {
			t.Errorf("error = %v, want ErrUnexpandedToken", err)
		}
	})

	t.Run("claude_runtime_tokens_pass", func(t *testing.T) {
		out, err := r.Render("passthrough.tmpl", ctx)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(string(out), "$ARGUMENTS") {
			t.Errorf("passthrough token lost: %q", out)
		}
	})
}

func TestTemplateFuncs(t *testing.T) {
	fsys := fstest.MapFS{
		"escape.tmpl": &fstest.MapFile{
			Data: []byte(`{"name": "{{jsonEscape .ProjectName}}", "root": "{{posixPath .ProjectRoot}}"}`),
		},
	}
	r := NewRenderer(fsys)
	ctx := NewContext(WithProject(`de"mo`, `C:\work\demo`))

	out, err := r.Render("escape.tmpl", ctx)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := `{"name": "de\"mo", "root": "C:/work/demo"}`
	if string(out) != want {
		t.Errorf("rendered = %q, want %q", out, want)
	}
}
