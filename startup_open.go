package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olivier-w/wavetrack/internal/amplitude"
	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/decode"
	"github.com/olivier-w/wavetrack/internal/media"
	"github.com/olivier-w/wavetrack/internal/player"
	"github.com/olivier-w/wavetrack/internal/ui"
)

// checkPath rejects missing files, directories and unknown formats before
// any decoding starts.
func checkPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s): %w", ext, media.SupportedExtsList(), decode.ErrUnsupportedFormat)
	}
	return nil
}

// buildTrackModel decodes path into amplitude bars and wires the track
// view. Preview playback is optional: if the audio device cannot be
// opened the view still works.
func buildTrackModel(ctx context.Context, path string, cfg config.Config, progress amplitude.Progress) (ui.Model, error) {
	if err := checkPath(path); err != nil {
		return ui.Model{}, err
	}

	bars, err := amplitude.Load(ctx, path, cfg.Bars, progress)
	if err != nil {
		return ui.Model{}, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}

	var duration time.Duration
	p, err := player.New(path)
	if err != nil {
		log.Printf("preview disabled: %v", err)
		duration, err = probeDuration(path)
		if err != nil {
			return ui.Model{}, err
		}
	} else {
		duration = p.Duration()
	}

	model, err := ui.New(ui.Options{
		Config:     cfg,
		Amplitudes: bars,
		Metadata:   media.ReadMetadata(path),
		Player:     p,
		Duration:   duration,
	})
	if err != nil && p != nil {
		p.Close()
	}
	return model, err
}

func probeDuration(path string) (time.Duration, error) {
	d, err := decode.Open(path)
	if err != nil {
		return 0, err
	}
	defer d.Close()
	if d.SampleRate() <= 0 {
		return 0, nil
	}
	frames := decode.Frames(d, d.Length())
	return time.Duration(frames) * time.Second / time.Duration(d.SampleRate()), nil
}

// buildDemoModel wires the track view to the built-in test signal.
func buildDemoModel(cfg config.Config) (ui.Model, error) {
	return ui.New(ui.Options{
		Config:     cfg,
		Amplitudes: amplitude.Demo(cfg.Bars),
		Metadata:   media.Metadata{Title: "demo signal"},
		Duration:   time.Duration(cfg.Bars) * 500 * time.Millisecond,
	})
}
