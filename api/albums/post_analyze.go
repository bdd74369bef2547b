package albums

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waxworks/sidecut/api/types"
	"github.com/waxworks/sidecut/internal/analysis"
	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/services/library"
	apperrors "github.com/waxworks/sidecut/pkg/errors"
	"github.com/waxworks/sidecut/pkg/wav"
)

// PostAnalyze handles POST /api/v1/albums/:folder/analyze. It runs boundary
// detection over the album's side recordings and returns the proposed
// segments without touching stored state.
func PostAnalyze(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		folder := c.Param("folder")

		album, err := deps.Albums.GetOrInitAlbum(c.Request.Context(), folder)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder name"})
			return
		}

		sources, err := openSources(deps, folder)
		if err != nil {
			if errors.Is(err, library.ErrInvalidFolder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder name"})
				return
			}
			c.JSON(apperrors.GetHTTPCode(err), gin.H{"error": err.Error()})
			return
		}
		if len(sources) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No wav files in album folder"})
			return
		}

		opts := segmentOptions(deps, album)
		segments, err := analysis.Segment(sources, opts)
		if err != nil {
			c.JSON(apperrors.GetHTTPCode(err), gin.H{"error": err.Error()})
			return
		}
		flagged := analysis.FlagShortSegments(segments)

		c.JSON(http.StatusOK, types.AnalyzeResponse{
			FolderName: folder,
			Strategy:   strategyName(len(sources), opts),
			Segments:   types.ToSegmentResponses(segments, flagged),
		})
	}
}

func openSources(deps *types.Dependencies, folder string) ([]analysis.Source, error) {
	files, err := deps.Albums.WavFiles(folder)
	if err != nil {
		return nil, err
	}
	sources := make([]analysis.Source, 0, len(files))
	for _, f := range files {
		wf, err := wav.Open(f)
		if err != nil {
			return nil, err
		}
		sources = append(sources, wf)
	}
	return sources, nil
}

func segmentOptions(deps *types.Dependencies, album *models.Album) analysis.Options {
	a := deps.Config.Analysis

	durations := make([]int64, 0, len(album.Tracks))
	for _, t := range album.Tracks {
		durations = append(durations, t.DurationMS)
	}

	return analysis.Options{
		WindowSec:           a.WindowSec,
		ExpectedTracks:      len(album.Tracks),
		ExpectedDurationsMS: durations,
		SearchRadius:        a.SearchRadiusSec,
		RegionSec:           a.RegionSec,
		EdgeMarginSec:       a.EdgeMarginSec,
		Silence: analysis.SilenceOptions{
			ThresholdFactor:  a.ThresholdFactor,
			MinSilenceSec:    a.MinSilenceSec,
			MedianFilterSize: a.MedianFilterSize,
		},
	}
}

// strategyName mirrors the segmenter's strategy selection for the response
func strategyName(sourceCount int, opts analysis.Options) string {
	if opts.ExpectedTracks > 0 && sourceCount == opts.ExpectedTracks {
		return "exact-match"
	}
	if opts.ExpectedTracks > 0 && len(opts.ExpectedDurationsMS) == opts.ExpectedTracks {
		all := true
		for _, d := range opts.ExpectedDurationsMS {
			if d <= 0 {
				all = false
				break
			}
		}
		if all {
			return "duration-first"
		}
	}
	return "silence"
}
