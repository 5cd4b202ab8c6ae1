package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestHeadlessManager(t *testing.T) {
	t.Run("forced_headless", func(t *testing.T) {
		h := NewHeadlessManager()
		h.ForceHeadless(true)
		if !h.IsHeadless() {
			t.Error("expected headless when forced")
		}
		h.ForceHeadless(false)
		if h.IsHeadless() {
			t.Error("expected interactive when forced off")
		}
	})

	t.Run("ci_env_is_headless", func(t *testing.T) {
		t.Setenv("CI", "true")
		h := NewHeadlessManager()
		if !h.IsHeadless() {
			t.Error("expected headless under CI")
		}
	})

	t.Run("clear_force", func(t *testing.T) {
		t.Setenv("CI", "true")
		h := NewHeadlessManager()
		h.ForceHeadless(false)
		if h.IsHeadless() {
			t.Error("force should override CI")
		}
		h.ClearForce()
		if !h.IsHeadless() {
			t.Error("clearing force should revert to detection")
		}
	})
}

func TestLogProgressBar(t *testing.T) {
	var buf bytes.Buffer
	h := NewHeadlessManager()
	h.ForceHeadless(true)
	p := NewProgress(DefaultTheme(), h, &buf)

	bar := p.Start("deploying", 3)
	if _, ok := bar.(*logProgressBar); !ok {
		t.Fatalf("expected logProgressBar in headless mode, got %T", bar)
	}

	bar.Increment(1)
	bar.SetTitle("agents")
	bar.Increment(1)
	bar.Done()

	out := buf.String()
	if !strings.Contains(out, "[1/3] deploying") {
		t.Errorf("missing first step line:\n%s", out)
	}
	if !strings.Contains(out, "[2/3] agents") {
		t.Errorf("missing retitled line:\n%s", out)
	}
	if !strings.Contains(out, "[3/3]") {
		t.Errorf("missing completion line:\n%s", out)
	}
}

func TestLogProgressBarClampsOvershoot(t *testing.T) {
	var buf bytes.Buffer
	bar := &logProgressBar{title: "t", total: 2, writer: &buf}
	bar.Increment(5)
	if !strings.Contains(buf.String(), "[2/2] t") {
		t.Errorf("overshoot not clamped:\n%s", buf.String())
	}
}

func TestProgressModelUpdate(t *testing.T) {
	m := newProgressModel(DefaultTheme(), "install", 4)

	next, _ := m.Update(progressIncrMsg(2))
	m = next.(progressModel)
	if m.current != 2 {
		t.Errorf("current = %d, want 2", m.current)
	}

	next, _ = m.Update(progressTitleMsg("commands"))
	m = next.(progressModel)
	if m.title != "commands" {
		t.Errorf("title = %q", m.title)
	}

	next, cmd := m.Update(progressDoneMsg{})
	m = next.(progressModel)
	if !m.done || m.current != m.total {
		t.Errorf("done = %v current = %d", m.done, m.current)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if m.View() != "" {
		t.Errorf("done view = %q, want empty", m.View())
	}
}
