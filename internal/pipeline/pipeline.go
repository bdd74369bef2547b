package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/services/library"
	"github.com/waxworks/sidecut/internal/services/musicbrainz"
	"github.com/waxworks/sidecut/internal/ui"
	"github.com/waxworks/sidecut/pkg/config"
	"github.com/waxworks/sidecut/pkg/flac"
)

// Catalog defines the interface for release metadata lookup
type Catalog interface {
	SearchReleases(ctx context.Context, artist, album string, limit, offset int) ([]musicbrainz.Release, int, error)
	GetRelease(ctx context.Context, releaseID string) (*musicbrainz.Release, error)
}

// Transcoder defines the interface for WAV to FLAC conversion
type Transcoder interface {
	Convert(ctx context.Context, wavPath, flacPath string, opts flac.Options, tags flac.Tags) error
}

// Pipeline walks an album through the processing stages:
// raw -> analyzed -> split -> converted -> done
type Pipeline struct {
	cfg      *config.Config
	albums   library.AlbumService
	catalog  Catalog
	conv     Transcoder
	prompter *ui.Prompter
	out      io.Writer
}

func New(cfg *config.Config, albums library.AlbumService, catalog Catalog, conv Transcoder, prompter *ui.Prompter, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		albums:   albums,
		catalog:  catalog,
		conv:     conv,
		prompter: prompter,
		out:      out,
	}
}

// Run advances the named album folder through every remaining stage,
// persisting state after each one so an interrupted run resumes cleanly.
func (p *Pipeline) Run(ctx context.Context, folderName string) error {
	album, err := p.albums.GetOrInitAlbum(ctx, folderName)
	if err != nil {
		return err
	}

	for album.Status != models.StatusDone {
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Printf("[INFO] %s: running stage %s", album.FolderName, album.Status)

		switch album.Status {
		case models.StatusRaw:
			err = p.analyze(ctx, album)
		case models.StatusAnalyzed:
			err = p.split(ctx, album)
		case models.StatusSplit:
			err = p.convert(ctx, album)
		case models.StatusConverted:
			err = p.finalize(ctx, album)
		default:
			return fmt.Errorf("album %s has unknown status %q", album.FolderName, album.Status)
		}
		if err != nil {
			return fmt.Errorf("stage %s of %s: %w", album.Status, album.FolderName, err)
		}

		album.Status = album.Status.Next()
		if err := p.albums.SaveAlbum(ctx, album); err != nil {
			return err
		}
	}

	fmt.Fprintf(p.out, "%s: done\n", album.FolderName)
	return nil
}
