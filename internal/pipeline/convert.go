package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/pkg/flac"
)

// convert encodes each split track to FLAC with tags. Existing outputs are
// kept, so a partially converted album resumes where it stopped.
func (p *Pipeline) convert(ctx context.Context, album *models.Album) error {
	if len(album.Tracks) == 0 {
		return fmt.Errorf("album %s has no tracks to convert", album.FolderName)
	}

	dir := filepath.Join(p.cfg.Library.Path, album.FolderName)
	opts := flac.Options{DownsampleCD: album.Quality == models.QualityCD}

	for _, t := range album.Tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		wavPath := filepath.Join(dir, t.File)
		flacPath := strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".flac"

		if _, err := os.Stat(flacPath); err == nil {
			log.Printf("[DEBUG] %s already exists, skipping", filepath.Base(flacPath))
			continue
		}

		tags := flac.Tags{
			Title:       t.Name,
			Artist:      album.Artist,
			Album:       album.Title,
			Year:        album.Year,
			Genre:       album.Genre,
			TrackNumber: t.Number,
			TrackTotal:  len(album.Tracks),
		}

		fmt.Fprintf(p.out, "Converting %s\n", t.File)
		if err := p.conv.Convert(ctx, wavPath, flacPath, opts, tags); err != nil {
			return err
		}
	}

	return nil
}
