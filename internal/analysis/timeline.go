package analysis

import (
	"github.com/waxworks/sidecut/pkg/errors"
)

// timelineEntry caches one source's RMS data and its position on the
// global time axis
type timelineEntry struct {
	source       Source
	duration     float64
	rms          []float64
	globalOffset float64
}

// Timeline stitches several sources into one global time axis. Entries are
// ordered and contiguous: each entry starts where the previous one ends.
// All fields are read-only once built.
type Timeline struct {
	entries   []timelineEntry
	windowSec float64
	total     float64
}

// NewTimeline reads RMS energy for every source and assigns global offsets
// by running cumulative sum of durations in list order. The list order is
// the intended playback order; callers supply sources already sorted.
func NewTimeline(sources []Source, windowSec float64) (*Timeline, error) {
	tl := &Timeline{
		entries:   make([]timelineEntry, 0, len(sources)),
		windowSec: windowSec,
	}

	offset := 0.0
	for _, src := range sources {
		rms, _, err := src.ReadEnergy(windowSec)
		if err != nil {
			return nil, err
		}
		dur := src.Duration()
		tl.entries = append(tl.entries, timelineEntry{
			source:       src,
			duration:     dur,
			rms:          rms,
			globalOffset: offset,
		})
		offset += dur
	}
	tl.total = offset

	return tl, nil
}

// TotalDuration returns the combined duration of all sources
func (t *Timeline) TotalDuration() float64 {
	return t.total
}

// GlobalToFile maps a global time to the source containing it and the
// corresponding local time. Times past the end clamp to the last source's
// final instant. Negative times are a caller bug.
func (t *Timeline) GlobalToFile(globalTime float64) (Source, float64, error) {
	if globalTime < 0 {
		return nil, 0, errors.InvalidArgument("globalTime", "must not be negative")
	}
	if len(t.entries) == 0 {
		return nil, 0, errors.InvalidArgument("timeline", "no entries")
	}

	for _, e := range t.entries {
		if globalTime < e.globalOffset+e.duration {
			return e.source, globalTime - e.globalOffset, nil
		}
	}

	last := t.entries[len(t.entries)-1]
	return last.source, last.duration, nil
}
