package wav

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/waxworks/sidecut/pkg/errors"
)

// Extract reads the raw frames covering [startSec, endSec) and returns them
// unchanged: same sample rate, channel count, and bit depth as the source.
// Frame indices are derived by rounding seconds * sample rate.
func (w *File) Extract(startSec, endSec float64) ([]byte, error) {
	startFrame := int64(math.Round(startSec * float64(w.format.SampleRate)))
	endFrame := int64(math.Round(endSec * float64(w.format.SampleRate)))

	if startFrame < 0 {
		return nil, errors.OutOfRange("start frame", startFrame, 0)
	}
	if endFrame > w.frames {
		return nil, errors.OutOfRange("end frame", endFrame, w.frames)
	}
	if endFrame < startFrame {
		return nil, errors.OutOfRange("frame range", endFrame, startFrame)
	}

	f, err := os.Open(w.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeInvalidArgument, "opening %s", w.path)
	}
	defer f.Close()

	blockAlign := int64(w.format.BlockAlign())
	data := make([]byte, (endFrame-startFrame)*blockAlign)
	if _, err := f.ReadAt(data, w.dataOffset+startFrame*blockAlign); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, errors.ErrCodeInternal, "reading %s", w.path)
	}

	return data, nil
}

// WriteFile writes raw interleaved PCM frames to path as a canonical WAV file
func WriteFile(path string, format Format, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "creating %s", path)
	}
	defer f.Close()

	byteRate := format.SampleRate * format.BlockAlign()

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(data)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], waveFormatPCM)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(format.BlockAlign()))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(format.BitsPerSample))
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(data)))

	if _, err := f.Write(hdr[:]); err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "writing %s", path)
	}
	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "writing %s", path)
	}

	return nil
}
