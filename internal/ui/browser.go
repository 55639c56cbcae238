package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/wavetrack/internal/media"
)

// BrowserSelectedMsg reports the file picked in the browser.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg reports that the user left the browser.
type BrowserCancelledMsg struct{}

type fileItem struct {
	path string
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

// BrowserModel lists the audio files of one directory.
type BrowserModel struct {
	list list.Model
	err  error
}

// NewBrowser scans dir for supported audio files.
func NewBrowser(dir string) BrowserModel {
	paths, err := media.Scan(dir)
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := make([]list.Item, 0, len(paths))
	for _, p := range paths {
		base := filepath.Base(p)
		ext := filepath.Ext(base)
		items = append(items, fileItem{
			path: p,
			name: strings.TrimSuffix(base, ext),
			ext:  strings.ToLower(ext),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "wavetrack"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("file", "files")
	l.Styles.Title = headerStyle

	return BrowserModel{list: l}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Empty reports whether the directory held no supported files.
func (m BrowserModel) Empty() bool {
	return len(m.list.Items()) == 0
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("wavetrack")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if msg, ok := msg.(tea.KeyMsg); ok && isQuit(msg) {
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case msg.String() == "enter":
			if item, ok := m.list.SelectedItem().(fileItem); ok {
				path := item.path
				return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
			}
			return m, nil
		case isQuit(msg):
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "\n  " + headerStyle.Render("wavetrack") + "\n\n  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	if m.Empty() {
		return "\n  " + headerStyle.Render("wavetrack") + "\n\n  " +
			statusStyle.Render("No audio files here ("+media.SupportedExtsList()+").") + "\n\n  " +
			helpStyle.Render("q quit") + "\n"
	}
	return m.list.View()
}
