package analysis

import (
	"math"
	"sort"
)

// SilenceOptions tunes silence detection
type SilenceOptions struct {
	// ThresholdFactor scales the median RMS to derive the silence threshold
	ThresholdFactor float64
	// MinSilenceSec is the shortest run of quiet windows reported as a gap
	MinSilenceSec float64
	// MedianFilterSize is the odd kernel size used to smooth the RMS curve
	MedianFilterSize int
}

// DefaultSilenceOptions returns the standard detection parameters
func DefaultSilenceOptions() SilenceOptions {
	return SilenceOptions{
		ThresholdFactor:  0.05,
		MinSilenceSec:    1.0,
		MedianFilterSize: 5,
	}
}

// DetectSilences finds sustained low-energy gaps in an RMS energy sequence.
// The threshold is relative: a window is silent when its smoothed RMS drops
// below ThresholdFactor times the median of all strictly positive RMS values.
// Gaps are returned in chronological order and never overlap.
func DetectSilences(rms []float64, windowSec float64, opts SilenceOptions) []SilenceGap {
	smoothed := rms
	if len(rms) > opts.MedianFilterSize {
		smoothed = medianFilter(rms, opts.MedianFilterSize)
	}

	threshold := opts.ThresholdFactor * positiveMedian(rms)

	minWindows := int(math.Round(opts.MinSilenceSec / windowSec))
	if minWindows < 1 {
		minWindows = 1
	}

	var gaps []SilenceGap
	inSilence := false
	startIdx := 0

	emit := func(start, end int) {
		if end-start >= minWindows {
			gaps = append(gaps, SilenceGap{
				StartSec: float64(start) * windowSec,
				EndSec:   float64(end) * windowSec,
			})
		}
	}

	for i, v := range smoothed {
		silent := v < threshold
		switch {
		case silent && !inSilence:
			inSilence = true
			startIdx = i
		case !silent && inSilence:
			inSilence = false
			emit(startIdx, i)
		}
	}

	// a run still open at the end of the sequence counts too
	if inSilence {
		emit(startIdx, len(smoothed))
	}

	return gaps
}

// positiveMedian returns the median of the strictly positive values, so a
// digitally dead-silent recording cannot drag the reference point to zero.
// Falls back to a small epsilon when no positive value exists.
func positiveMedian(rms []float64) float64 {
	positive := make([]float64, 0, len(rms))
	for _, v := range rms {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return 0.001
	}
	sort.Float64s(positive)
	n := len(positive)
	if n%2 == 1 {
		return positive[n/2]
	}
	return (positive[n/2-1] + positive[n/2]) / 2
}

// medianFilter applies a centered median filter of odd kernel size,
// zero-padding beyond the sequence edges
func medianFilter(values []float64, kernel int) []float64 {
	half := kernel / 2
	out := make([]float64, len(values))
	window := make([]float64, 0, kernel)

	for i := range values {
		window = window[:0]
		for j := i - half; j <= i+half; j++ {
			if j < 0 || j >= len(values) {
				window = append(window, 0)
			} else {
				window = append(window, values[j])
			}
		}
		sort.Float64s(window)
		out[i] = window[kernel/2]
	}

	return out
}
