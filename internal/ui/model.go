package ui

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/geom"
	"github.com/olivier-w/wavetrack/internal/media"
	"github.com/olivier-w/wavetrack/internal/player"
	"github.com/olivier-w/wavetrack/internal/snap"
	"github.com/olivier-w/wavetrack/internal/util"
	"github.com/olivier-w/wavetrack/internal/waveform"
)

const (
	// screen rows above the canvas: blank, header, blank, title, blank
	canvasTop = 5
	// columns left of the canvas
	canvasLeft = 2
	// rows drawn below the canvas and around it
	chromeRows = canvasTop + 7

	minCanvasRows = 2
	maxCanvasRows = 12

	// bars moved by one key press or wheel notch
	scrollBars = 2
	// release velocity, in content units per millisecond, that starts a coast
	coastVelocity = 0.05
)

// Options wires a track view. Player is optional; without it preview is
// disabled.
type Options struct {
	Config     config.Config
	Amplitudes []float64
	Metadata   media.Metadata
	Player     *player.Player
	Duration   time.Duration
}

type dragState struct {
	active      bool
	moved       bool
	startX      int
	startOffset float64
	lastOffset  float64
	lastTime    float64
	velocity    float64
}

// Model is the Bubble Tea model of the waveform track screen.
type Model struct {
	cfg      config.Config
	track    *waveform.Track
	ctrl     *snap.Controller
	player   *player.Player
	metadata media.Metadata
	duration time.Duration
	elapsed  time.Duration

	keys    keyMap
	help    help.Model
	editor  textinput.Model
	editing bool

	width  int
	height int
	cols   int
	rows   int

	anim      scrollAnim
	animating bool
	coasting  bool
	frameSeq  int
	wheelSeq  int
	drag      dragState

	start time.Time
	now   func() time.Time

	status   string
	statusOK bool
	quitting bool
}

// New builds the track and its snap controller.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}

	track := waveform.NewTrack(waveform.Layout{
		BarWidth:    cfg.BarWidth,
		BarSpacing:  cfg.BarSpacing,
		TrackHeight: cfg.TrackHeight,
	}, cfg.LookupCapacity, cfg.Mode)
	track.SetAmplitudes(opts.Amplitudes)

	ctrl, err := snap.NewController(snap.Options{
		Bars:                 len(opts.Amplitudes),
		BarWidth:             cfg.BarWidth,
		BarSpacing:           cfg.BarSpacing,
		MarkerSize:           cfg.MarkerSize,
		ScaleX:               1,
		MinScaleX:            cfg.MinScaleX,
		MaxScaleX:            cfg.MaxScaleX,
		Percentages:          cfg.SnapPercentages,
		MagnetWhileScrolling: cfg.MagnetWhileScrolling,
	})
	if err != nil {
		return Model{}, fmt.Errorf("snap controller: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "0, 0.25, 0.5, 75%"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "snaps: "

	m := Model{
		cfg:      cfg,
		track:    track,
		ctrl:     ctrl,
		player:   opts.Player,
		metadata: opts.Metadata,
		duration: opts.Duration,
		keys:     newKeyMap(),
		help:     help.New(),
		editor:   ti,
		cols:     40,
		rows:     6,
		start:    time.Now(),
		now:      time.Now,
	}
	m.ctrl.SetViewport(m.viewport())
	return m, nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(windowTitle(m.metadata.Title))}
	if m.player != nil {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

func checkDone(p *player.Player) tea.Cmd {
	done := p.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{}
	}
}

// clock is the controller timestamp in milliseconds since the view opened.
func (m Model) clock() float64 {
	return float64(m.now().Sub(m.start)) / float64(time.Millisecond)
}

// viewport is the canvas width in content units; one dot column is one
// unit.
func (m Model) viewport() float64 {
	return float64(m.cols * 2)
}

// cursorX is the content position under the marker.
func (m Model) cursorX() float64 {
	return m.ctrl.Offset() + m.cfg.MarkerSize/2
}

// left is the content position of the first dot column. The cursor sits
// in the middle of the canvas.
func (m Model) left() float64 {
	return m.cursorX() - float64(m.cols/2*2)
}

// clampOffset keeps the cursor inside the content.
func (m Model) clampOffset(offset float64) float64 {
	half := m.cfg.MarkerSize / 2
	return math.Max(-half, math.Min(offset, m.ctrl.ContentWidth()-half))
}

// cursorTime maps the cursor onto the audio duration.
func (m Model) cursorTime() time.Duration {
	w := m.ctrl.ContentWidth()
	if w <= 0 {
		return 0
	}
	frac := math.Max(0, math.Min(m.cursorX()/w, 1))
	return time.Duration(frac * float64(m.duration))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.cols = max(msg.Width-canvasLeft*2, 10)
		m.rows = clampInt(msg.Height-chromeRows, minCanvasRows, maxCanvasRows)
		m.help.Width = msg.Width
		m.editor.Width = max(msg.Width-12, 10)
		return m, m.apply(m.ctrl.SetViewport(m.viewport()))

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.editing {
			return m, nil
		}
		return m.handleMouse(msg)

	case scrollIdleMsg:
		if msg.seq == m.wheelSeq && !m.drag.active && m.ctrl.Phase() == snap.Dragging {
			return m, m.apply(m.ctrl.OnDragEnd(false))
		}
		return m, nil

	case frameMsg:
		if !m.animating || msg.seq != m.frameSeq {
			return m, nil
		}
		pos, done := m.anim.step()
		m.ctrl.OnScrollSample(pos, m.clock())
		if !done {
			return m, frameCmd(m.frameSeq)
		}
		m.animating = false
		if m.coasting {
			m.coasting = false
			return m, m.apply(m.ctrl.OnDecelerationEnd())
		}
		return m, m.apply(m.ctrl.OnSettleComplete())

	case tickMsg:
		if m.player == nil {
			return m, nil
		}
		m.elapsed = m.player.Position()
		return m, tickCmd()

	case playbackEndedMsg:
		m.setStatus("preview finished", true)
		return m, nil

	default:
		if m.editing {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.player != nil {
			m.player.Close()
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Left):
		return m, m.scrollBy(-m.scrollStep())
	case key.Matches(msg, m.keys.Right):
		return m, m.scrollBy(m.scrollStep())

	case key.Matches(msg, m.keys.ZoomIn):
		return m, m.apply(m.ctrl.OnPinch(1.1))
	case key.Matches(msg, m.keys.ZoomOut):
		return m, m.apply(m.ctrl.OnPinch(1 / 1.1))

	case key.Matches(msg, m.keys.PrevSnap):
		return m, m.apply(m.ctrl.Step(-1))
	case key.Matches(msg, m.keys.NextSnap):
		return m, m.apply(m.ctrl.Step(1))

	case key.Matches(msg, m.keys.Preview):
		return m, m.togglePreview()

	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.editor.SetValue(config.FormatPercentages(m.ctrl.Percentages()))
		m.editor.CursorEnd()
		return m, m.editor.Focus()

	case key.Matches(msg, m.keys.Mode):
		mode := curve.Linear
		if m.track.Mode() == curve.Linear {
			mode = curve.Curved
		}
		m.track.SetMode(mode)
		m.setStatus(mode.String()+" outline", true)
		return m, nil
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		ps, err := config.ParsePercentages(m.editor.Value())
		if err == nil {
			err = m.ctrl.SetPercentages(ps)
		}
		if err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.editing = false
		m.editor.Blur()
		m.setStatus(fmt.Sprintf("%d snap points", len(ps)), true)
		return m, nil
	case "esc", "ctrl+c":
		m.editing = false
		m.editor.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		return m, m.scrollBy(-m.scrollStep())
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		return m, m.scrollBy(m.scrollStep())
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.onCanvas(msg.X, msg.Y) {
			return m, nil
		}
		m.animating, m.coasting = false, false
		m.ctrl.OnDragStart()
		now := m.clock()
		m.drag = dragState{
			active:      true,
			startX:      msg.X,
			startOffset: m.ctrl.Offset(),
			lastOffset:  m.ctrl.Offset(),
			lastTime:    now,
		}
		m.ctrl.OnScrollSample(m.ctrl.Offset(), now)
		return m, nil

	case tea.MouseActionMotion:
		if !m.drag.active {
			return m, nil
		}
		if msg.X != m.drag.startX {
			m.drag.moved = true
		}
		offset := m.clampOffset(m.drag.startOffset - float64(msg.X-m.drag.startX)*2)
		now := m.clock()
		if dt := now - m.drag.lastTime; dt > 0 {
			m.drag.velocity = (offset - m.drag.lastOffset) / dt
		}
		m.drag.lastOffset, m.drag.lastTime = offset, now
		m.ctrl.OnScrollSample(offset, now)
		return m, nil

	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		drag := m.drag
		m.drag = dragState{}
		if !drag.moved {
			cmd := m.apply(m.ctrl.OnDragEnd(false))
			m.hitTest(msg.X, msg.Y)
			return m, cmd
		}
		if math.Abs(drag.velocity) < coastVelocity {
			return m, m.apply(m.ctrl.OnDragEnd(false))
		}
		m.ctrl.OnDragEnd(true)
		target := m.clampOffset(m.ctrl.Offset() + drag.velocity*coastMillis)
		return m, m.animateTo(target, coastMillis+100, true)
	}
	return m, nil
}

func (m Model) onCanvas(x, y int) bool {
	return x >= canvasLeft && x < canvasLeft+m.cols && y >= canvasTop && y < canvasTop+m.rows
}

func (m Model) scrollStep() float64 {
	l := m.track.Layout()
	return scrollBars * l.Pitch() * m.ctrl.Scale().ScaleX
}

// scrollBy feeds a wheel or key scroll as a short drag. The drag ends
// once the input goes quiet for scrollIdle.
func (m *Model) scrollBy(delta float64) tea.Cmd {
	m.animating, m.coasting = false, false
	now := m.clock()
	if m.ctrl.Phase() != snap.Dragging {
		m.ctrl.OnDragStart()
		m.ctrl.OnScrollSample(m.ctrl.Offset(), now)
	}
	m.ctrl.OnScrollSample(m.clampOffset(m.ctrl.Offset()+delta), now)
	m.wheelSeq++
	return scrollIdleCmd(m.wheelSeq)
}

func (m *Model) animateTo(target, durationMillis float64, coast bool) tea.Cmd {
	m.anim.start(m.ctrl.Offset(), target, durationMillis)
	m.animating = true
	m.coasting = coast
	m.frameSeq++
	return frameCmd(m.frameSeq)
}

// apply carries out a controller command.
func (m *Model) apply(cmd snap.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	log.Printf("snap: %v", cmd)

	switch c := cmd.(type) {
	case snap.SetScale:
		m.animating, m.coasting = false, false
		return nil
	case snap.AnimateScrollTo:
		return m.animateTo(c.Offset, c.Duration, false)
	case snap.HighlightSnap:
		ps := m.ctrl.Percentages()
		if c.Index >= 0 && c.Index < len(ps) {
			m.setStatus(fmt.Sprintf("snap %d at %s", c.Index+1, config.FormatPercentages(ps[c.Index:c.Index+1])), true)
		}
		return nil
	}
	return nil
}

func (m *Model) hitTest(x, y int) {
	h := m.cfg.TrackHeight
	probe := geom.Pt(
		m.left()+float64((x-canvasLeft)*2)+1,
		(float64((y-canvasTop)*4)+2)/float64(m.rows*4)*h,
	)
	scale := m.ctrl.Scale().ScaleX
	pt, ok, err := m.track.HitTest(scale, probe, m.cfg.HitDistance)
	switch {
	case err != nil:
		m.setStatus(err.Error(), false)
	case !ok:
		m.setStatus("no outline nearby", true)
	default:
		bar := m.track.BarAt(pt.X, scale)
		amps := m.track.Amplitudes()
		m.setStatus(fmt.Sprintf("bar %d  level %.2f", bar+1, amps[bar]), true)
	}
}

func (m *Model) togglePreview() tea.Cmd {
	if m.player == nil {
		m.setStatus("no audio to preview", false)
		return nil
	}
	if !m.player.Paused() {
		m.player.Pause()
		return nil
	}
	at := m.cursorTime()
	if err := m.player.PlayFrom(at); err != nil {
		m.setStatus(err.Error(), false)
		return nil
	}
	m.setStatus("preview from "+util.FormatDuration(at), true)
	return checkDone(m.player)
}

func (m *Model) setStatus(s string, ok bool) {
	m.status, m.statusOK = s, ok
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	mode := m.track.Mode().String()
	headerLeft := headerStyle.Render("wavetrack") + "  " + helpStyle.Render(mode)
	scale := renderScale(m.ctrl.Scale().ScaleX)
	gap := max(m.cols-len("wavetrack")-2-len(mode)-len(scale), 2)
	b.WriteString(spaces(canvasLeft) + headerLeft + spaces(gap) + timeStyle.Render(scale) + "\n\n")

	title := titleStyle.Render(m.metadata.Title)
	if m.metadata.Artist != "" {
		title += "  " + artistStyle.Render(m.metadata.Artist)
	}
	b.WriteString(spaces(canvasLeft) + title + "\n\n")

	// an empty track draws a blank canvas
	var rows []string
	status, statusOK := m.status, m.statusOK
	if g, err := m.track.Geometry(m.ctrl.Scale().ScaleX); err == nil {
		rows = rasterize(g.Table, m.left(), m.cols, m.rows, m.cfg.TrackHeight)
	} else if m.track.Bars() > 0 {
		status, statusOK = err.Error(), false
	}
	for i := range m.rows {
		line := spaces(m.cols)
		if i < len(rows) {
			line = waveStyle.Render(rows[i])
		}
		b.WriteString(spaces(canvasLeft) + line + "\n")
	}

	candidate, _ := m.ctrl.MagnetCandidate()
	cells := markerCells(m.ctrl.Points(), m.cfg.MarkerSize, m.left(), m.cols, m.ctrl.Highlighted(), candidate)
	b.WriteString(spaces(canvasLeft) + renderMarkers(cells) + "\n\n")

	at := m.cursorTime()
	elapsed := timeStyle.Render(util.FormatDuration(at))
	total := timeStyle.Render(util.FormatDuration(m.duration))
	bar := renderProgressBar(m.cursorX(), m.ctrl.ContentWidth(), m.cols-12)
	b.WriteString(spaces(canvasLeft) + elapsed + " " + bar + " " + total + "\n")

	state := m.ctrl.Phase().String()
	if m.player != nil && !m.player.Paused() {
		state = "▶ " + util.FormatDuration(m.elapsed)
	}
	line := statusStyle.Render(state)
	if status != "" {
		style := statusStyle
		if !statusOK {
			style = errorStyle
		}
		line += "  " + style.Render(status)
	}
	b.WriteString(spaces(canvasLeft) + line + "\n\n")

	if m.editing {
		b.WriteString(spaces(canvasLeft) + m.editor.View() + "\n")
		b.WriteString(spaces(canvasLeft) + helpStyle.Render("enter apply  esc cancel") + "\n")
	} else {
		b.WriteString(spaces(canvasLeft) + m.help.View(m.keys) + "\n")
	}
	return b.String()
}

func windowTitle(title string) string {
	if title == "" {
		return "wavetrack"
	}
	return title + " — wavetrack"
}
