package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	fps = 60
	// a wheel or key scroll ends once no sample arrived for this long
	scrollIdle = 150 * time.Millisecond
)

type tickMsg time.Time
type playbackEndedMsg struct{}

// frameMsg advances the scroll animation identified by seq.
type frameMsg struct{ seq int }

// scrollIdleMsg ends the wheel scroll identified by seq.
type scrollIdleMsg struct{ seq int }

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func frameCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	})
}

func scrollIdleCmd(seq int) tea.Cmd {
	return tea.Tick(scrollIdle, func(time.Time) tea.Msg {
		return scrollIdleMsg{seq: seq}
	})
}
