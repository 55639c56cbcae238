package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseLoading
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

// loadStatus is the decoding progress in [0, 1].
type loadStatus struct {
	Percent float64
}

type startupLoadStatusMsg loadStatus

type startupModel struct {
	cfg       config.Config
	browser   ui.BrowserModel
	phase     startupPhase
	path      string
	errMsg    string
	width     int
	height    int
	spinner   spinner.Model
	progress  progress.Model
	status    loadStatus
	statusCh  chan loadStatus
	hasStatus bool
	cancel    context.CancelFunc
}

// newStartupModel starts in the browser over dir, or goes straight to
// loading when path is set. A failed load falls back to the browser.
func newStartupModel(cfg config.Config, dir, path string) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	m := startupModel{
		cfg:      cfg,
		phase:    phaseBrowse,
		path:     path,
		spinner:  s,
		progress: p,
	}
	m.browser = ui.NewBrowser(dir)
	return m
}

func (m startupModel) Init() tea.Cmd {
	if m.path != "" {
		path := m.path
		return func() tea.Msg { return ui.BrowserSelectedMsg{Path: path} }
	}
	return tea.Batch(m.browser.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(20, min(msg.Width-8, 60))
		if m.phase == phaseBrowse {
			model, cmd := m.browser.Update(msg)
			if browser, ok := model.(ui.BrowserModel); ok {
				m.browser = browser
			}
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseLoading {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m.phase = phaseLoading
		m.path = msg.Path
		m.errMsg = ""
		m.hasStatus = false
		m.status = loadStatus{}
		m.statusCh = make(chan loadStatus, 16)
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		return m, tea.Batch(
			m.spinner.Tick,
			m.waitForStatus(),
			loadTrackCmd(ctx, msg.Path, m.cfg, m.statusCh),
		)

	case startupLoadStatusMsg:
		m.hasStatus = true
		m.status = loadStatus(msg)
		return m, m.waitForStatus()

	case startupResolvedMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if msg.err != nil {
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			m.hasStatus = false
			m.statusCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseLoading && startupIsQuit(msg) {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		model, cmd := m.browser.Update(msg)
		if browser, ok := model.(ui.BrowserModel); ok {
			m.browser = browser
		}
		return m, cmd
	}

	return m, nil
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupLoadStatusMsg(status)
	}
}

func (m startupModel) View() string {
	if m.phase == phaseBrowse {
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  wavetrack\n\n  " + m.renderError() + "\n\n" + indentBlock(m.browser.View(), "  ")
	}

	return m.renderLoadingView()
}

func (m startupModel) renderLoadingView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("wavetrack"))
	b.WriteString("\n\n")

	if m.hasStatus {
		b.WriteString("  ")
		b.WriteString(startupStatusStyle.Render("Decoding..."))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(m.status.Percent))
		b.WriteString(fmt.Sprintf("  %.0f%%\n", m.status.Percent*100))
	} else {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(startupStatusStyle.Render("Opening..."))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m startupModel) renderError() string {
	return startupErrorStyle.Render(m.errMsg)
}

func loadTrackCmd(ctx context.Context, path string, cfg config.Config, statusCh chan loadStatus) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		last := -1
		model, err := buildTrackModel(ctx, path, cfg, func(f float64) {
			// one update per percent is plenty for the bar
			if pct := int(f * 100); pct != last {
				last = pct
				select {
				case statusCh <- loadStatus{Percent: f}:
				default:
				}
			}
		})
		return startupResolvedMsg{model: model, err: err}
	}
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
