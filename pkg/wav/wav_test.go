package wav

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/pkg/errors"
)

// encodeFrames packs mono sample values into interleaved PCM frames,
// duplicating the value across channels
func encodeFrames(t *testing.T, samples []int32, format Format) []byte {
	t.Helper()

	out := make([]byte, 0, len(samples)*format.BlockAlign())
	for _, s := range samples {
		for c := 0; c < format.Channels; c++ {
			switch format.BitsPerSample {
			case 16:
				var b [2]byte
				binary.LittleEndian.PutUint16(b[:], uint16(int16(s)))
				out = append(out, b[:]...)
			case 24:
				out = append(out, byte(s), byte(s>>8), byte(s>>16))
			case 32:
				var b [4]byte
				binary.LittleEndian.PutUint32(b[:], uint32(s))
				out = append(out, b[:]...)
			default:
				t.Fatalf("unsupported test bit depth %d", format.BitsPerSample)
			}
		}
	}
	return out
}

// writeTestWAV writes a WAV with every frame set to the given sample value
func writeTestWAV(t *testing.T, format Format, frames int, value int32) string {
	t.Helper()

	samples := make([]int32, frames)
	for i := range samples {
		samples[i] = value
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, WriteFile(path, format, encodeFrames(t, samples, format)))
	return path
}

func TestOpenMetadata(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 2, BitsPerSample: 16}
	path := writeTestWAV(t, format, 12000, 1000)

	f, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, format, f.Format())
	assert.Equal(t, int64(12000), f.Frames())
	assert.InDelta(t, 1.5, f.Duration(), 1e-9)
}

func TestOpenRejectsUnsupported(t *testing.T) {
	dir := t.TempDir()

	writeRaw := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	// valid header template: 8-bit PCM (unsupported depth)
	eightBit := make([]byte, 44)
	copy(eightBit[0:4], "RIFF")
	binary.LittleEndian.PutUint32(eightBit[4:8], 36)
	copy(eightBit[8:12], "WAVE")
	copy(eightBit[12:16], "fmt ")
	binary.LittleEndian.PutUint32(eightBit[16:20], 16)
	binary.LittleEndian.PutUint16(eightBit[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(eightBit[22:24], 1)
	binary.LittleEndian.PutUint32(eightBit[24:28], 8000)
	binary.LittleEndian.PutUint32(eightBit[28:32], 8000)
	binary.LittleEndian.PutUint16(eightBit[32:34], 1)
	binary.LittleEndian.PutUint16(eightBit[34:36], 8) // 8-bit
	copy(eightBit[36:40], "data")

	// IEEE float format tag
	floatFmt := append([]byte(nil), eightBit...)
	binary.LittleEndian.PutUint16(floatFmt[20:22], 3)
	binary.LittleEndian.PutUint16(floatFmt[34:36], 32)

	tests := []struct {
		name string
		path string
	}{
		{"8-bit depth", writeRaw("8bit.wav", eightBit)},
		{"ieee float", writeRaw("float.wav", floatFmt)},
		{"not a wav", writeRaw("junk.wav", []byte("ID3\x04this is not audio at all........"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedFormat), "got %v", err)
		})
	}
}

func TestReadEnergy(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		value  int32
	}{
		{"16-bit mono", Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}, 16384},
		{"16-bit stereo", Format{SampleRate: 8000, Channels: 2, BitsPerSample: 16}, -16384},
		{"24-bit stereo", Format{SampleRate: 8000, Channels: 2, BitsPerSample: 24}, 4194304},
		{"32-bit mono", Format{SampleRate: 8000, Channels: 1, BitsPerSample: 32}, 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestWAV(t, tt.format, 8000, tt.value) // exactly 1s
			f, err := Open(path)
			require.NoError(t, err)

			rms, rate, err := f.ReadEnergy(0.1)
			require.NoError(t, err)
			assert.Equal(t, tt.format.SampleRate, rate)
			require.Len(t, rms, 10)

			// constant amplitude: RMS equals |value| / full scale everywhere
			want := float64(tt.value) / float64(int64(1)<<(tt.format.BitsPerSample-1))
			if want < 0 {
				want = -want
			}
			for i, v := range rms {
				assert.InDelta(t, want, v, 1e-6, "window %d", i)
			}
		})
	}
}

func TestReadEnergyTrailingPartialWindow(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}
	// 1.25s of audio with a 0.5s window: two full windows plus one partial
	path := writeTestWAV(t, format, 10000, 8192)

	f, err := Open(path)
	require.NoError(t, err)

	rms, _, err := f.ReadEnergy(0.5)
	require.NoError(t, err)
	require.Len(t, rms, 3, "partial window must be emitted, not dropped")

	for i, v := range rms {
		assert.InDelta(t, 8192.0/32768.0, v, 1e-6, "window %d", i)
	}
}

func TestReadEnergyInvalidWindow(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}
	path := writeTestWAV(t, format, 100, 0)

	f, err := Open(path)
	require.NoError(t, err)

	_, _, err = f.ReadEnergy(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
}
