// Package decode opens audio files as streams of interleaved signed
// 16-bit little-endian PCM.
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Decoder is a seekable 16-bit PCM stream. Offsets and Length are in
// output bytes.
type Decoder interface {
	io.ReadSeeker
	io.Closer
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// Open detects the format by extension and returns a decoder that owns
// the file.
func Open(path string) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := newDecoder(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

func newDecoder(f *os.File, ext string) (Decoder, error) {
	switch ext {
	case ".mp3":
		return newMP3(f)
	case ".wav":
		return newWAV(f)
	case ".flac":
		return newFLAC(f)
	case ".ogg":
		return newOGG(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Frames converts a byte length of d's output to sample frames.
func Frames(d Decoder, n int64) int64 {
	fs := int64(d.ChannelCount()) * 2
	if fs == 0 {
		return 0
	}
	return n / fs
}

// pcm holds the bookkeeping shared by the decoders that convert from a
// source format: the leftover bytes of the last conversion, the output
// position and the stream shape.
type pcm struct {
	file     *os.File
	pending  []byte
	pos      int64
	total    int64
	rate     int
	channels int
}

func (s *pcm) Length() int64     { return s.total }
func (s *pcm) SampleRate() int   { return s.rate }
func (s *pcm) ChannelCount() int { return s.channels }
func (s *pcm) Close() error      { return s.file.Close() }

func (s *pcm) frameSize() int64 { return int64(s.channels) * 2 }

// drain copies leftover bytes into p.
func (s *pcm) drain(p []byte) (int, bool) {
	if len(s.pending) == 0 {
		return 0, false
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	s.pos += int64(n)
	return n, true
}

// emit copies converted bytes into p and keeps what does not fit.
func (s *pcm) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		s.pending = raw[n:]
	}
	s.pos += int64(n)
	return n
}

// resolve turns a Seek request into a clamped absolute output offset.
func (s *pcm) resolve(offset int64, whence int) int64 {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = s.total + offset
	}
	return max(0, min(target, s.total))
}

// moved records a completed seek.
func (s *pcm) moved(to int64) {
	s.pending = nil
	s.pos = to
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
