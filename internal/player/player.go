// Package player previews a decoded file through oto starting at an
// arbitrary offset.
package player

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/wavetrack/internal/decode"
)

// ErrContextFormat is returned when a file's sample rate or channel count
// differs from the process-wide audio context opened for the first file.
var ErrContextFormat = errors.New("audio context format mismatch")

// countingReader wraps the decoder and tracks how far oto has pulled.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Player plays one file. It starts paused.
type Player struct {
	decoder     decode.Decoder
	counter     *countingReader
	otoCtx      *oto.Context
	otoPlayer   *oto.Player
	bytesPerSec int64
	frameSize   int64
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	ctxRate      int
	ctxChannels  int
	otoMu        sync.Mutex
)

func initOto(rate, channels int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if globalOtoCtx != nil {
		if rate != ctxRate || channels != ctxChannels {
			return nil, fmt.Errorf("%w: open at %d Hz x %d, file is %d Hz x %d",
				ErrContextFormat, ctxRate, ctxChannels, rate, channels)
		}
		return globalOtoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	globalOtoCtx, ctxRate, ctxChannels = ctx, rate, channels
	return ctx, nil
}

// New opens path for preview.
func New(path string) (*Player, error) {
	dec, err := decode.Open(path)
	if err != nil {
		return nil, err
	}

	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		dec.Close()
		return nil, err
	}

	frameSize := int64(dec.ChannelCount()) * 2
	p := &Player{
		decoder:     dec,
		counter:     &countingReader{reader: dec},
		otoCtx:      ctx,
		bytesPerSec: int64(dec.SampleRate()) * frameSize,
		frameSize:   frameSize,
		volume:      0.8,
		paused:      true,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
		cleanup:     func() { dec.Close() },
	}
	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)

	go p.monitor(p.done)
	return p, nil
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.done != done {
			p.mu.Unlock()
			return
		}
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length()
		if finished {
			p.paused = true
			close(done)
		}
		p.mu.Unlock()
		if finished {
			return
		}
	}
}

// Done returns a channel that closes when playback reaches the end. A
// later seek replaces it.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// clampSeekByteOffset converts a time offset to a byte offset inside
// [0, total] aligned down to a frame boundary.
func clampSeekByteOffset(at time.Duration, bytesPerSec, total, frameSize int64) int64 {
	pos := int64(at.Seconds() * float64(bytesPerSec))
	pos = max(0, min(pos, total))
	return pos - pos%frameSize
}

// SeekTo moves playback to at. When resume is set playback starts
// immediately; otherwise the player is left paused.
func (p *Player) SeekTo(at time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos := clampSeekByteOffset(at, p.bytesPerSec, p.decoder.Length(), p.frameSize)
	if _, err := p.decoder.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %v: %w", at, err)
	}
	p.counter.SetPos(pos)

	// A fresh oto player drops whatever the old one buffered.
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.otoCtx != nil {
		p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
		p.otoPlayer.SetVolume(p.volume)
	}

	if p.done != nil {
		select {
		case <-p.done:
			p.done = make(chan struct{})
			go p.monitor(p.done)
		default:
		}
	}

	p.paused = !resume
	if resume && p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
	return nil
}

// PlayFrom starts playback at the given offset.
func (p *Player) PlayFrom(at time.Duration) error {
	return p.SeekTo(at, true)
}

// Pause stops playback without moving the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		if p.otoPlayer != nil {
			p.otoPlayer.Play()
		}
		p.paused = false
	} else {
		if p.otoPlayer != nil {
			p.otoPlayer.Pause()
		}
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the file.
func (p *Player) Duration() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	secs := float64(p.decoder.Length()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(v, 1))
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// Close stops playback and releases the file. It is safe to call twice.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}
