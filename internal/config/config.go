// Package config holds the layout and behaviour settings of the track
// view.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olivier-w/wavetrack/internal/curve"
)

// ErrInvalidConfig is returned by Validate and ParsePercentages.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultSnapPercentages are the magnet points placed on a fresh track.
var DefaultSnapPercentages = []float64{0.0, 0.1, 0.15, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9}

// Config is everything the track view needs to lay itself out.
type Config struct {
	BarWidth    float64
	BarSpacing  float64
	TrackHeight float64
	MarkerSize  float64

	MinScaleX float64
	MaxScaleX float64

	Bars           int
	LookupCapacity int
	HitDistance    float64
	Mode           curve.Mode

	SnapPercentages      []float64
	MagnetWhileScrolling bool
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		BarWidth:             2,
		BarSpacing:           1,
		TrackHeight:          70,
		MarkerSize:           8,
		MinScaleX:            0.3,
		MaxScaleX:            3,
		Bars:                 160,
		LookupCapacity:       curve.DefaultCapacity,
		HitDistance:          curve.DefaultMaxDistance,
		Mode:                 curve.Curved,
		SnapPercentages:      append([]float64(nil), DefaultSnapPercentages...),
		MagnetWhileScrolling: true,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.BarWidth <= 0:
		return fmt.Errorf("bar width %g: %w", c.BarWidth, ErrInvalidConfig)
	case c.BarSpacing < 0:
		return fmt.Errorf("bar spacing %g: %w", c.BarSpacing, ErrInvalidConfig)
	case c.TrackHeight <= 0:
		return fmt.Errorf("track height %g: %w", c.TrackHeight, ErrInvalidConfig)
	case c.MarkerSize < 0:
		return fmt.Errorf("marker size %g: %w", c.MarkerSize, ErrInvalidConfig)
	case c.MinScaleX <= 0 || c.MaxScaleX < c.MinScaleX:
		return fmt.Errorf("scale range [%g, %g]: %w", c.MinScaleX, c.MaxScaleX, ErrInvalidConfig)
	case c.Bars <= 0:
		return fmt.Errorf("bars %d: %w", c.Bars, ErrInvalidConfig)
	case c.LookupCapacity <= 0:
		return fmt.Errorf("lookup capacity %d: %w", c.LookupCapacity, ErrInvalidConfig)
	case c.HitDistance <= 0:
		return fmt.Errorf("hit distance %g: %w", c.HitDistance, ErrInvalidConfig)
	}
	for _, p := range c.SnapPercentages {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("snap percent %g: %w", p, ErrInvalidConfig)
		}
	}
	return nil
}

// ParsePercentages reads a comma separated list such as "0, 0.25, .5".
// A "%" suffix always means percent ("1%" is 0.01); bare values above 1
// are read as percent too ("25" is 0.25). An empty string yields no snap
// points.
func ParsePercentages(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		number, percent := strings.CutSuffix(field, "%")
		number = strings.TrimSpace(number)
		if number == "" {
			if percent {
				return nil, fmt.Errorf("snap percent %q: %w", field, ErrInvalidConfig)
			}
			continue
		}
		v, err := strconv.ParseFloat(number, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("snap percent %q: %w", field, ErrInvalidConfig)
		}
		if percent || v > 1 {
			v /= 100
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("snap percent %q out of range: %w", field, ErrInvalidConfig)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatPercentages is the inverse of ParsePercentages.
func FormatPercentages(ps []float64) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
