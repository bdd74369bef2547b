package wav

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/pkg/errors"
)

func TestExtract(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 2, BitsPerSample: 16}
	path := writeTestWAV(t, format, 8000, 1234) // 1s

	f, err := Open(path)
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end float64
		wantFrames int64
	}{
		{"quarter second", 0.25, 0.5, 2000},
		{"whole file", 0, 1.0, 8000},
		{"fractional rounding", 0.1001, 0.2999, 1598}, // round(2399.2) - round(800.8)
		{"empty range", 0.5, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := f.Extract(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrames*int64(format.BlockAlign()), int64(len(data)))
		})
	}
}

func TestExtractOutOfRange(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}
	path := writeTestWAV(t, format, 8000, 0)

	f, err := Open(path)
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end float64
	}{
		{"negative start", -0.5, 0.5},
		{"end past file", 0.5, 1.5},
		{"inverted range", 0.8, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Extract(tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange), "got %v", err)
		})
	}
}

func TestExtractPreservesFormat(t *testing.T) {
	format := Format{SampleRate: 44100, Channels: 2, BitsPerSample: 24}
	path := writeTestWAV(t, format, 44100, 99999)

	f, err := Open(path)
	require.NoError(t, err)

	data, err := f.Extract(0.25, 0.75)
	require.NoError(t, err)

	// write the cut back out and confirm the format survived untouched
	out := filepath.Join(t.TempDir(), "cut.wav")
	require.NoError(t, WriteFile(out, f.Format(), data))

	cut, err := Open(out)
	require.NoError(t, err)
	assert.Equal(t, format, cut.Format())
	assert.Equal(t, int64(22050), cut.Frames())
	assert.InDelta(t, 0.5, cut.Duration(), 1e-9)

	// sample payload is byte-identical to the source range
	cutData, err := cut.Extract(0, cut.Duration())
	require.NoError(t, err)
	assert.Equal(t, data, cutData)
}
