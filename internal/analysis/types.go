// Package analysis locates track boundaries in a continuously recorded vinyl
// side. It combines windowed RMS energy with externally supplied expected
// track durations when available, and falls back to silence detection when
// not. The package is a pure computation over its inputs: nothing is
// persisted and no files are written.
package analysis

// Source is one input recording, supplied in playback order. *wav.File
// satisfies it; tests substitute synthetic energy without touching disk.
type Source interface {
	Path() string
	Duration() float64
	ReadEnergy(windowSec float64) ([]float64, int, error)
}

// SilenceGap is a sustained low-energy interval in one source's local time
type SilenceGap struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

// Midpoint returns the time at the center of the gap
func (g SilenceGap) Midpoint() float64 {
	return (g.StartSec + g.EndSec) / 2
}

// Duration returns the gap length in seconds
func (g SilenceGap) Duration() float64 {
	return g.EndSec - g.StartSec
}

// TrackSegment is one track's span within a single source file
type TrackSegment struct {
	Source      Source  `json:"-"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	TrackNumber int     `json:"track_number"`
	TrackName   string  `json:"track_name"`
}

// Duration returns the segment length in seconds
func (s TrackSegment) Duration() float64 {
	return s.EndSec - s.StartSec
}
