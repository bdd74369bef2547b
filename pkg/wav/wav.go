// Package wav reads and writes uncompressed RIFF/WAVE PCM audio. It exposes
// just enough surface for track-boundary analysis: windowed RMS energy
// extraction with bounded memory, cheap duration lookup, and raw frame
// extraction for splitting.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/waxworks/sidecut/pkg/errors"
)

// Format describes the PCM encoding of a WAV file
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// BlockAlign returns the size in bytes of one interleaved frame
func (f Format) BlockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// fullScale returns the magnitude of the most negative sample value,
// used to normalize samples into [-1, 1]
func (f Format) fullScale() float64 {
	return float64(int64(1) << (f.BitsPerSample - 1))
}

// File is an opened WAV file. It holds header metadata only; sample data is
// streamed on demand and never materialized whole.
type File struct {
	path       string
	format     Format
	frames     int64
	dataOffset int64
}

const (
	waveFormatPCM        = 1
	waveFormatExtensible = 0xFFFE
)

// Open parses the RIFF header of a WAV file and returns a handle for reading.
// Only 16/24/32-bit signed little-endian linear PCM is supported.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeInvalidArgument, "opening %s", path)
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, errors.UnsupportedFormat("container", path).WithCause(err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errors.UnsupportedFormat("container", path).
			WithDetail("reason", "not a RIFF/WAVE file")
	}

	var (
		format     Format
		haveFmt    bool
		dataOffset int64
		dataSize   int64
	)

	// Walk chunks until both fmt and data are located
	offset := int64(12)
	for {
		var hdr [8]byte
		if _, err := f.ReadAt(hdr[:], offset); err != nil {
			break
		}
		chunkID := string(hdr[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch chunkID {
		case "fmt ":
			fmtBuf := make([]byte, chunkSize)
			if _, err := f.ReadAt(fmtBuf, offset+8); err != nil {
				return nil, errors.UnsupportedFormat("fmt chunk", path).WithCause(err)
			}
			audioFormat := binary.LittleEndian.Uint16(fmtBuf[0:2])
			format.Channels = int(binary.LittleEndian.Uint16(fmtBuf[2:4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(fmtBuf[4:8]))
			format.BitsPerSample = int(binary.LittleEndian.Uint16(fmtBuf[14:16]))

			switch audioFormat {
			case waveFormatPCM:
				// plain PCM
			case waveFormatExtensible:
				// extensible header: the first two bytes of the sub-format
				// GUID carry the actual format tag
				if chunkSize < 40 || binary.LittleEndian.Uint16(fmtBuf[24:26]) != waveFormatPCM {
					return nil, errors.UnsupportedFormat("audio format", audioFormat)
				}
			default:
				return nil, errors.UnsupportedFormat("audio format", audioFormat)
			}

			switch format.BitsPerSample {
			case 16, 24, 32:
			default:
				return nil, errors.UnsupportedFormat("bit depth", format.BitsPerSample)
			}
			haveFmt = true

		case "data":
			dataOffset = offset + 8
			dataSize = chunkSize
		}

		if haveFmt && dataOffset > 0 {
			break
		}
		// chunks are word-aligned
		offset += 8 + chunkSize + (chunkSize & 1)
	}

	if !haveFmt || dataOffset == 0 {
		return nil, errors.UnsupportedFormat("container", path).
			WithDetail("reason", "missing fmt or data chunk")
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, errors.UnsupportedFormat("fmt chunk", fmt.Sprintf("rate=%d channels=%d", format.SampleRate, format.Channels))
	}

	return &File{
		path:       path,
		format:     format,
		frames:     dataSize / int64(format.BlockAlign()),
		dataOffset: dataOffset,
	}, nil
}

// Path returns the file's path
func (w *File) Path() string { return w.path }

// Format returns the file's PCM encoding
func (w *File) Format() Format { return w.format }

// Frames returns the total number of sample frames
func (w *File) Frames() int64 { return w.frames }

// Duration returns the file's length in seconds. This is a metadata-only
// computation; no sample data is decoded.
func (w *File) Duration() float64 {
	return float64(w.frames) / float64(w.format.SampleRate)
}

// ReadEnergy streams the file in window-sized chunks and returns one RMS
// value per window, normalized to [0, 1], plus the sample rate. Multi-channel
// frames are averaged to mono before squaring. A trailing partial window is
// emitted as a shorter window rather than dropped.
func (w *File) ReadEnergy(windowSec float64) ([]float64, int, error) {
	if windowSec <= 0 {
		return nil, 0, errors.InvalidArgument("windowSec", "must be positive")
	}

	f, err := os.Open(w.path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, errors.ErrCodeInvalidArgument, "opening %s", w.path)
	}
	defer f.Close()

	if _, err := f.Seek(w.dataOffset, io.SeekStart); err != nil {
		return nil, 0, errors.Wrapf(err, errors.ErrCodeInternal, "seeking in %s", w.path)
	}

	windowFrames := int64(float64(w.format.SampleRate) * windowSec)
	if windowFrames < 1 {
		windowFrames = 1
	}

	blockAlign := int64(w.format.BlockAlign())
	buf := make([]byte, windowFrames*blockAlign)
	rms := make([]float64, 0, w.frames/windowFrames+1)

	var framesRead int64
	for framesRead < w.frames {
		chunkFrames := windowFrames
		if remaining := w.frames - framesRead; remaining < chunkFrames {
			chunkFrames = remaining
		}
		chunk := buf[:chunkFrames*blockAlign]
		if _, err := io.ReadFull(f, chunk); err != nil {
			return nil, 0, errors.Wrapf(err, errors.ErrCodeInternal, "reading %s", w.path)
		}
		framesRead += chunkFrames

		rms = append(rms, windowRMS(chunk, w.format))
	}

	return rms, w.format.SampleRate, nil
}

// windowRMS computes the RMS of one window of interleaved frames,
// channel-averaged to mono and normalized by full scale
func windowRMS(raw []byte, format Format) float64 {
	bytesPerSample := format.BitsPerSample / 8
	frameBytes := format.BlockAlign()
	frames := len(raw) / frameBytes
	if frames == 0 {
		return 0
	}

	scale := format.fullScale()
	var sumSquares float64

	for i := 0; i < frames; i++ {
		base := i * frameBytes
		var frameSum float64
		for c := 0; c < format.Channels; c++ {
			frameSum += float64(decodeSample(raw[base+c*bytesPerSample:], format.BitsPerSample))
		}
		mono := frameSum / float64(format.Channels) / scale
		sumSquares += mono * mono
	}

	return math.Sqrt(sumSquares / float64(frames))
}

// decodeSample reads one signed little-endian PCM sample
func decodeSample(b []byte, bits int) int32 {
	switch bits {
	case 16:
		return int32(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v -= 0x1000000
		}
		return v
	default: // 32
		return int32(binary.LittleEndian.Uint32(b))
	}
}
