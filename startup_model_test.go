package main

import (
	"flag"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/ui"
)

func TestStartupModelSelectionEntersLoadingPhase(t *testing.T) {
	model, cmd := newStartupModel(config.Default(), t.TempDir(), "").Update(ui.BrowserSelectedMsg{Path: "song.wav"})
	if cmd == nil {
		t.Fatal("expected loading command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseLoading {
		t.Fatalf("expected phaseLoading, got %v", startup.phase)
	}
	if startup.statusCh == nil || startup.cancel == nil {
		t.Fatal("expected status channel and cancel func to be initialized")
	}
	startup.cancel()
}

func TestStartupModelWithPathLoadsImmediately(t *testing.T) {
	m := newStartupModel(config.Default(), t.TempDir(), "take.flac")
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected init command")
	}
	msg, ok := cmd().(ui.BrowserSelectedMsg)
	if !ok || msg.Path != "take.flac" {
		t.Fatalf("expected selection of take.flac, got %#v", msg)
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(config.Default(), t.TempDir(), "")
	m.phase = phaseLoading

	model, cmd := m.Update(startupResolvedMsg{err: errBoom{}})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg == "" {
		t.Fatal("expected error message")
	}
	if !strings.Contains(startup.View(), "boom") {
		t.Fatal("expected error in view")
	}
}

func TestStartupModelConsumesStatusUpdates(t *testing.T) {
	m := newStartupModel(config.Default(), t.TempDir(), "")
	m.phase = phaseLoading
	m.statusCh = make(chan loadStatus)

	model, cmd := m.Update(startupLoadStatusMsg{Percent: 0.5})
	if cmd == nil {
		t.Fatal("expected waitForStatus command")
	}

	startup := model.(startupModel)
	if !startup.hasStatus {
		t.Fatal("expected hasStatus to be true")
	}
	if startup.status.Percent != 0.5 {
		t.Fatalf("unexpected status: %+v", startup.status)
	}
	if !strings.Contains(startup.View(), "50%") {
		t.Fatalf("expected percent in view, got %q", startup.View())
	}
}

func TestStartupModelQuitWhileLoadingCancels(t *testing.T) {
	m := newStartupModel(config.Default(), t.TempDir(), "")
	m.phase = phaseLoading
	cancelled := false
	m.cancel = func() { cancelled = true }

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || !cancelled {
		t.Fatal("expected quit to cancel the load")
	}
}

func TestStartupModelResolvedSwitchesToTrack(t *testing.T) {
	track, err := buildDemoModel(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	m := newStartupModel(config.Default(), t.TempDir(), "")
	m.phase = phaseLoading

	model, cmd := m.Update(startupResolvedMsg{model: track})
	if _, ok := model.(ui.Model); !ok {
		t.Fatalf("expected ui.Model, got %T", model)
	}
	if cmd == nil {
		t.Fatal("expected init command")
	}
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	if err := checkPath(dir); err == nil {
		t.Fatal("expected directory to be rejected")
	}
	if err := checkPath(dir + "/missing.wav"); err == nil {
		t.Fatal("expected missing file to be rejected")
	}
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("wavetrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, opts, err := parseFlags(fs, []string{"-linear", "-bars", "90", "-snaps", "0,50%", "-no-magnet", "-demo", "song.wav"})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if cfg.Mode != curve.Linear || cfg.Bars != 90 || cfg.MagnetWhileScrolling {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.SnapPercentages) != 2 || cfg.SnapPercentages[1] != 0.5 {
		t.Fatalf("snaps = %v", cfg.SnapPercentages)
	}
	if !opts.demo || opts.path != "song.wav" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"-bars", "0"},
		{"-snaps", "0,2x"},
		{"-capacity", "-1"},
	} {
		fs := flag.NewFlagSet("wavetrack", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		if _, _, err := parseFlags(fs, args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
