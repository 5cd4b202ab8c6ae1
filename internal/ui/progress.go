package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressBar tracks a determinate multi-step operation.
type ProgressBar interface {
	// Increment advances the progress by n.
	Increment(n int)
	// SetTitle updates the label next to the bar.
	SetTitle(title string)
	// Done completes the bar and releases the terminal.
	Done()
}

// Progress creates progress bars appropriate for the environment:
// an animated bubbles bar on a TTY, plain log lines otherwise.
type Progress struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewProgress creates a Progress whose headless log lines go to w.
// A nil writer falls back to os.Stdout.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) *Progress {
	if w == nil {
		w = os.Stdout
	}
	return &Progress{theme: theme, headless: hm, writer: w}
}

// Start creates a determinate progress bar with the given total.
func (p *Progress) Start(title string, total int) ProgressBar {
	if p.headless.IsHeadless() || p.theme.NoColor {
		return &logProgressBar{title: title, total: total, writer: p.writer}
	}
	return newTeaProgressBar(p.theme, title, total)
}

// --- logProgressBar ---

// logProgressBar writes one plain line per step, for headless runs.
type logProgressBar struct {
	title   string
	total   int
	current int
	writer  io.Writer
}

func (b *logProgressBar) Increment(n int) {
	b.current += n
	if b.current > b.total {
		b.current = b.total
	}
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}

func (b *logProgressBar) SetTitle(title string) {
	b.title = title
}

func (b *logProgressBar) Done() {
	b.current = b.total
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}

// --- teaProgressBar ---

type progressIncrMsg int
type progressTitleMsg string
type progressDoneMsg struct{}

// progressModel is the bubbletea Model for the animated progress bar.
type progressModel struct {
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newProgressModel(theme *Theme, title string, total int) progressModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return progressModel{bar: bar, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressIncrMsg:
		m.current += int(msg)
		if m.current > m.total {
			m.current = m.total
		}
		return m, nil
	case progressTitleMsg:
		m.title = string(msg)
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + fmt.Sprintf(" [%d/%d] %s\n", m.current, m.total, m.title)
}

// teaProgressBar runs the bubbletea program in the background and feeds
// it messages. Done must be called exactly once to release the terminal.
type teaProgressBar struct {
	program *tea.Program
	once    sync.Once
}

func newTeaProgressBar(theme *Theme, title string, total int) *teaProgressBar {
	p := tea.NewProgram(newProgressModel(theme, title, total))
	b := &teaProgressBar{program: p}

	go func() {
		_, _ = p.Run()
	}()

	return b
}

func (b *teaProgressBar) Increment(n int) {
	b.program.Send(progressIncrMsg(n))
}

func (b *teaProgressBar) SetTitle(title string) {
	b.program.Send(progressTitleMsg(title))
}

func (b *teaProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}
