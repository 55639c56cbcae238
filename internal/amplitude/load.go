package amplitude

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/olivier-w/wavetrack/internal/decode"
)

const chunkFrames = 4096

// Progress receives the fraction of the file reduced so far.
type Progress func(fraction float64)

// Load decodes path and reduces it to bars levels in [0, 1]. WAV files are
// read natively through go-audio; other formats go through decode.Open.
// Cancelling ctx stops the reduction between chunks.
func Load(ctx context.Context, path string, bars int, progress Progress) ([]float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return loadWAV(ctx, path, bars, progress)
	}
	d, err := decode.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return loadStream(ctx, d, bars, progress)
}

func loadWAV(ctx context.Context, path string, bars int, progress Progress) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	ch := int(dec.NumChans)
	frameBytes := int64(ch) * int64(dec.BitDepth) / 8
	if frameBytes == 0 {
		return nil, fmt.Errorf("WAV: %d channels at %d bits: %w", ch, dec.BitDepth, decode.ErrUnsupportedFormat)
	}

	r, err := NewReducer(bars, dec.PCMLen()/frameBytes)
	if err != nil {
		return nil, err
	}

	buf := &audio.IntBuffer{
		Format:         dec.Format(),
		Data:           make([]int, chunkFrames*ch),
		SourceBitDepth: int(dec.BitDepth),
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf.Data = buf.Data[:cap(buf.Data)]
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			buf.Data = buf.Data[:n-n%ch]
			r.Add(buf)
			report(progress, r)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading WAV samples: %w", err)
		}
		if n == 0 || err != nil {
			break
		}
	}
	return r.Bars(), nil
}

func loadStream(ctx context.Context, d decode.Decoder, bars int, progress Progress) ([]float64, error) {
	r, err := NewReducer(bars, decode.Frames(d, d.Length()))
	if err != nil {
		return nil, err
	}

	ch := d.ChannelCount()
	raw := make([]byte, chunkFrames*ch*2)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: ch, SampleRate: d.SampleRate()},
		Data:           make([]int, chunkFrames*ch),
		SourceBitDepth: 16,
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := io.ReadFull(d, raw)
		samples := n / 2
		samples -= samples % ch
		if samples > 0 {
			buf.Data = buf.Data[:samples]
			for i := range samples {
				buf.Data[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
			}
			r.Add(buf)
			report(progress, r)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding samples: %w", err)
		}
	}
	return r.Bars(), nil
}

func report(progress Progress, r *Reducer) {
	if progress != nil {
		progress(r.Done())
	}
}
