package analysis

import (
	"math"
	"sort"
)

// Default analysis parameters, matching the tuning the tool ships with
const (
	DefaultWindowSec     = 0.05
	DefaultSearchRadius  = 15.0
	DefaultRegionSec     = 0.3
	DefaultEdgeMarginSec = 3.0

	shortSegmentRatio  = 0.3
	shortSegmentAbsSec = 15.0
)

// Options controls segmentation. Expected track metadata comes from the
// catalog collaborator; zero values select sensible defaults for the
// analysis knobs.
type Options struct {
	// WindowSec is the RMS analysis window length
	WindowSec float64
	// ExpectedTracks is the catalog track count, 0 when unknown
	ExpectedTracks int
	// ExpectedDurationsMS holds per-track expected durations in
	// milliseconds, 0 marking an unknown entry. The duration-first
	// strategy runs only when every entry is known; a single missing
	// duration forces the silence fallback for the whole run.
	ExpectedDurationsMS []int64
	// SearchRadius bounds the quietest-region search around a predicted
	// boundary
	SearchRadius float64
	// RegionSec is the sustained-region length compared during the
	// quietest search
	RegionSec float64
	// EdgeMarginSec excludes silence gaps near a file's physical edges
	// in the fallback strategy
	EdgeMarginSec float64
	// Silence tunes the fallback silence detector
	Silence SilenceOptions
}

func (o Options) withDefaults() Options {
	if o.WindowSec <= 0 {
		o.WindowSec = DefaultWindowSec
	}
	if o.SearchRadius <= 0 {
		o.SearchRadius = DefaultSearchRadius
	}
	if o.RegionSec <= 0 {
		o.RegionSec = DefaultRegionSec
	}
	if o.EdgeMarginSec <= 0 {
		o.EdgeMarginSec = DefaultEdgeMarginSec
	}
	if o.Silence == (SilenceOptions{}) {
		o.Silence = DefaultSilenceOptions()
	}
	return o
}

// hasAllDurations reports whether the duration-first strategy can run
func (o Options) hasAllDurations() bool {
	if o.ExpectedTracks == 0 || len(o.ExpectedDurationsMS) != o.ExpectedTracks {
		return false
	}
	for _, d := range o.ExpectedDurationsMS {
		if d <= 0 {
			return false
		}
	}
	return true
}

// Segment determines track boundaries across the given sources and returns
// one TrackSegment per track, numbered from 1 in playback order.
//
// Three mutually exclusive strategies, selected by input shape:
//   - exact match: one source per expected track, each spans its whole file
//     and no energy is read
//   - duration-first: expected durations predict each boundary, refined to
//     the quietest nearby region
//   - silence fallback: per-file silence gaps become interior boundaries
//
// An empty source list yields an empty segment list, not an error.
func Segment(sources []Source, opts Options) ([]TrackSegment, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()

	// Sources already match the expected track count 1:1, no analysis needed
	if opts.ExpectedTracks > 0 && len(sources) == opts.ExpectedTracks {
		segments := make([]TrackSegment, 0, len(sources))
		for i, src := range sources {
			segments = append(segments, TrackSegment{
				Source:      src,
				StartSec:    0,
				EndSec:      src.Duration(),
				TrackNumber: i + 1,
			})
		}
		return segments, nil
	}

	if opts.hasAllDurations() {
		return segmentByDurations(sources, opts)
	}

	return segmentBySilence(sources, opts)
}

// segmentByDurations walks the expected track durations along a global
// cursor. Each track's predicted end is refined to the quietest nearby
// region; the true start is derived backwards from the refined end and
// clamped to the cursor so segments never overlap. The last track is pinned
// to the literal end of the recorded audio.
func segmentByDurations(sources []Source, opts Options) ([]TrackSegment, error) {
	tl, err := NewTimeline(sources, opts.WindowSec)
	if err != nil {
		return nil, err
	}
	total := tl.TotalDuration()

	segments := make([]TrackSegment, 0, opts.ExpectedTracks)
	cursor := 0.0

	for i, durMS := range opts.ExpectedDurationsMS {
		expected := float64(durMS) / 1000.0
		predictedEnd := cursor + expected

		var trackEnd float64
		if i == opts.ExpectedTracks-1 {
			// the recording ends exactly where the last track ends
			trackEnd = total
		} else {
			trackEnd = tl.FindQuietest(predictedEnd, opts.SearchRadius, opts.RegionSec)
		}

		// never start before the previous track's anchored end
		trackStart := math.Max(trackEnd-expected, cursor)

		startSrc, localStart, err := tl.GlobalToFile(trackStart)
		if err != nil {
			return nil, err
		}
		_, localEnd, err := tl.GlobalToFile(trackEnd)
		if err != nil {
			return nil, err
		}

		// probe just inside the end so a boundary landing exactly on a
		// file seam resolves to the earlier file
		endSrc, _, err := tl.GlobalToFile(math.Max(0, trackEnd-0.01))
		if err != nil {
			return nil, err
		}

		// a segment straddling two files is clipped to the first file's
		// end; multi-file extraction is not supported
		if startSrc != endSrc {
			localEnd = startSrc.Duration()
		}

		segments = append(segments, TrackSegment{
			Source:      startSrc,
			StartSec:    localStart,
			EndSec:      localEnd,
			TrackNumber: i + 1,
		})

		cursor = trackEnd
	}

	return segments, nil
}

// segmentBySilence splits each source independently at the midpoints of its
// interior silence gaps. Gaps within EdgeMarginSec of a file's physical
// edges are ignored to avoid false boundaries from lead-in/lead-out noise.
// Track numbering runs across the whole file list.
func segmentBySilence(sources []Source, opts Options) ([]TrackSegment, error) {
	var segments []TrackSegment
	trackNum := 1

	for _, src := range sources {
		duration := src.Duration()
		rms, _, err := src.ReadEnergy(opts.WindowSec)
		if err != nil {
			return nil, err
		}

		gaps := DetectSilences(rms, opts.WindowSec, opts.Silence)

		var boundaries []float64
		for _, g := range gaps {
			mid := g.Midpoint()
			if mid > opts.EdgeMarginSec && mid < duration-opts.EdgeMarginSec {
				boundaries = append(boundaries, mid)
			}
		}

		edges := append([]float64{0}, boundaries...)
		edges = append(edges, duration)

		for i := 0; i+1 < len(edges); i++ {
			segments = append(segments, TrackSegment{
				Source:      src,
				StartSec:    edges[i],
				EndSec:      edges[i+1],
				TrackNumber: trackNum,
			})
			trackNum++
		}
	}

	return segments, nil
}

// FlagShortSegments returns the indices of anomalously short segments: those
// shorter than both 30% of the median segment duration and 15 seconds
// absolute. Advisory only; the segment list itself is untouched. Deciding
// whether to merge or delete flagged segments is the caller's call.
func FlagShortSegments(segments []TrackSegment) []int {
	if len(segments) == 0 {
		return nil
	}

	durations := make([]float64, len(segments))
	for i, s := range segments {
		durations[i] = s.Duration()
	}
	sorted := append([]float64(nil), durations...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]

	var flagged []int
	for i, d := range durations {
		if d < shortSegmentRatio*median && d < shortSegmentAbsSec {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

// RenumberSegments restores the contiguous 1-based numbering invariant after
// the caller deletes segments
func RenumberSegments(segments []TrackSegment) {
	for i := range segments {
		segments[i].TrackNumber = i + 1
	}
}
