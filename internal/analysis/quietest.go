package analysis

import "math"

// FindQuietest locates the sustained low-energy region nearest anchorTime.
// Expected-duration metadata only approximates a boundary; the true edit
// point is the local energy minimum nearby (the inter-track groove).
//
// The search window [anchor-radius, anchor+radius] is clipped at zero and a
// region of regionSec windows is slid across every overlapping entry's RMS
// slice, comparing all entries on equal footing even when the window spans
// two files. Ties go to the first region found, in timeline order then
// increasing index, which keeps the result deterministic. Returns the
// midpoint time of the winning region, or anchorTime unchanged when no
// entry overlaps the window.
func (t *Timeline) FindQuietest(anchorTime, searchRadius, regionSec float64) float64 {
	searchStart := math.Max(0, anchorTime-searchRadius)
	searchEnd := anchorTime + searchRadius

	bestEnergy := math.Inf(1)
	bestTime := anchorTime

	for _, e := range t.entries {
		fileStart := e.globalOffset
		fileEnd := e.globalOffset + e.duration

		if fileEnd <= searchStart || fileStart >= searchEnd {
			continue
		}

		localStart := math.Max(0, searchStart-fileStart)
		localEnd := math.Min(e.duration, searchEnd-fileStart)

		startIdx := int(localStart / t.windowSec)
		endIdx := int(localEnd / t.windowSec)
		if endIdx > len(e.rms) {
			endIdx = len(e.rms)
		}
		if startIdx >= endIdx || startIdx >= len(e.rms) {
			continue
		}

		slice := e.rms[startIdx:endIdx]
		regionWindows := int(regionSec / t.windowSec)
		if regionWindows < 1 {
			regionWindows = 1
		}

		for i := 0; i+regionWindows <= len(slice); i++ {
			var sum float64
			for _, v := range slice[i : i+regionWindows] {
				sum += v
			}
			energy := sum / float64(regionWindows)
			if energy < bestEnergy {
				bestEnergy = energy
				midIdx := i + regionWindows/2
				bestTime = fileStart + float64(startIdx+midIdx)*t.windowSec
			}
		}
	}

	return bestTime
}
