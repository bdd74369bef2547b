package albums

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/waxworks/sidecut/api/types"
	"github.com/waxworks/sidecut/internal/services/library"
	apperrors "github.com/waxworks/sidecut/pkg/errors"
	"github.com/waxworks/sidecut/pkg/wav"
)

// GetWaveform handles GET /api/v1/albums/:folder/waveform. It returns
// per-file RMS series for display. The window defaults to the configured
// analysis window and can be widened with ?window= for coarser plots.
func GetWaveform(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		folder := c.Param("folder")

		window := deps.Config.Analysis.WindowSec
		if q := c.Query("window"); q != "" {
			w, err := strconv.ParseFloat(q, 64)
			if err != nil || w <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window parameter"})
				return
			}
			window = w
		}

		files, err := deps.Albums.WavFiles(folder)
		if err != nil {
			if errors.Is(err, library.ErrInvalidFolder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder name"})
				return
			}
			c.JSON(apperrors.GetHTTPCode(err), gin.H{"error": err.Error()})
			return
		}
		if len(files) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No wav files in album folder"})
			return
		}

		out := types.WaveformResponse{
			FolderName: folder,
			WindowSec:  window,
			Files:      make([]types.WaveformFile, 0, len(files)),
		}
		for _, f := range files {
			wf, err := wav.Open(f)
			if err != nil {
				c.JSON(apperrors.GetHTTPCode(err), gin.H{"error": err.Error()})
				return
			}
			rms, _, err := wf.ReadEnergy(window)
			if err != nil {
				c.JSON(apperrors.GetHTTPCode(err), gin.H{"error": err.Error()})
				return
			}
			out.Files = append(out.Files, types.WaveformFile{
				Name:        filepath.Base(f),
				DurationSec: wf.Duration(),
				RMS:         rms,
			})
		}

		c.JSON(http.StatusOK, out)
	}
}
