package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// mp3Stream passes go-mp3 output through; it is already 16-bit stereo.
type mp3Stream struct {
	file *os.File
	dec  *mp3.Decoder
}

func newMP3(f *os.File) (*mp3Stream, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Stream{file: f, dec: dec}, nil
}

func (d *mp3Stream) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Stream) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Stream) Length() int64     { return d.dec.Length() }
func (d *mp3Stream) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Stream) ChannelCount() int { return 2 }
func (d *mp3Stream) Close() error      { return d.file.Close() }

// wavStream converts 8/16/24/32-bit integer PCM to 16-bit.
type wavStream struct {
	pcm
	pcmStart int64
	bitDepth int
	srcFrame int64
}

func newWAV(f *os.File) (*wavStream, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels == 0 || bitDepth%8 != 0 || bitDepth == 0 || bitDepth > 32 {
		return nil, fmt.Errorf("WAV: %d channels at %d bits: %w", channels, bitDepth, ErrUnsupportedFormat)
	}
	srcFrame := int64(channels) * int64(bitDepth) / 8

	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	frames := dec.PCMLen() / srcFrame
	return &wavStream{
		pcm: pcm{
			file:     f,
			total:    frames * int64(channels) * 2,
			rate:     int(dec.SampleRate),
			channels: channels,
		},
		pcmStart: start,
		bitDepth: bitDepth,
		srcFrame: srcFrame,
	}, nil
}

func (d *wavStream) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	width := d.bitDepth / 8
	want := min(max(len(p)/2, 1), int((d.total-d.pos)/2))
	if want == 0 {
		return 0, io.EOF
	}
	src := make([]byte, want*width)
	n, err := io.ReadFull(d.file, src)
	samples := n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		b := src[i*width:]
		var v int
		switch d.bitDepth {
		case 8:
			v = (int(b[0]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(v)))
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.emit(p, raw), err
}

func (d *wavStream) Seek(offset int64, whence int) (int64, error) {
	to := d.resolve(offset, whence)
	frame := to / d.frameSize()
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrame, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(to)
	return to, nil
}

// flacStream rescales FLAC frames of any bit depth to 16-bit.
type flacStream struct {
	pcm
	stream *flac.Stream
	bps    int
}

func newFLAC(f *os.File) (*flacStream, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacStream{
		pcm: pcm{
			file:     f,
			total:    int64(info.NSamples) * int64(channels) * 2,
			rate:     int(info.SampleRate),
			channels: channels,
		},
		stream: stream,
		bps:    int(info.BitsPerSample),
	}, nil
}

func (d *flacStream) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	samples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, samples*d.channels*2)
	for i := range samples {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				v >>= d.bps - 16
			} else if d.bps < 16 {
				v <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clamp16(v)))
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacStream) Seek(offset int64, whence int) (int64, error) {
	to := d.resolve(offset, whence)
	if _, err := d.stream.Seek(uint64(to / d.frameSize())); err != nil {
		return d.pos, err
	}
	d.moved(to)
	return to, nil
}

// oggStream converts Vorbis float output to 16-bit.
type oggStream struct {
	pcm
	reader *oggvorbis.Reader
}

func newOGG(f *os.File) (*oggStream, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := reader.Channels()
	return &oggStream{
		pcm: pcm{
			file:     f,
			total:    reader.Length() * int64(channels) * 2,
			rate:     reader.SampleRate(),
			channels: channels,
		},
		reader: reader,
	}, nil
}

func (d *oggStream) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = max(-1, min(1, s))
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return d.emit(p, raw), err
}

func (d *oggStream) Seek(offset int64, whence int) (int64, error) {
	to := d.resolve(offset, whence)
	if err := d.reader.SetPosition(to / d.frameSize()); err != nil {
		return d.pos, err
	}
	d.moved(to)
	return to, nil
}
