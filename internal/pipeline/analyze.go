package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/services/library"
	"github.com/waxworks/sidecut/internal/services/musicbrainz"
)

// analyze resolves album metadata, preferring a catalog match and falling
// back to manual entry. Track names and expected durations recorded here
// drive the boundary search in the split stage.
func (p *Pipeline) analyze(ctx context.Context, album *models.Album) error {
	artist, title := library.ParseFolderName(album.FolderName)
	if album.Artist != "" {
		artist = album.Artist
	}
	if album.Title != "" {
		title = album.Title
	}

	release, err := p.lookupRelease(ctx, artist, title)
	if err != nil {
		return err
	}

	if release != nil {
		album.Artist = release.Artist
		album.Title = release.Title
		album.MusicBrainzID = release.ID
		album.Year = release.Year
		album.Tracks = make([]models.Track, 0, len(release.Tracks))
		for _, t := range release.Tracks {
			album.Tracks = append(album.Tracks, models.Track{
				Number:     t.Number,
				Name:       t.Title,
				DurationMS: t.DurationMS,
			})
		}
		fmt.Fprintf(p.out, "Matched %s\n", release.Summary())
	} else {
		if err := p.manualEntry(album, artist, title); err != nil {
			return err
		}
	}

	genre, err := p.prompter.String("Genre", album.Genre)
	if err != nil {
		return err
	}
	album.Genre = genre

	cd, err := p.prompter.Confirm("Downsample to CD quality?", false)
	if err != nil {
		return err
	}
	if cd {
		album.Quality = models.QualityCD
	} else {
		album.Quality = models.QualityHiRes
	}

	return nil
}

// lookupRelease searches the catalog and lets the user pick a match. A nil
// release with nil error means manual entry.
func (p *Pipeline) lookupRelease(ctx context.Context, artist, title string) (*musicbrainz.Release, error) {
	if p.catalog == nil {
		return nil, nil
	}

	releases, total, err := p.catalog.SearchReleases(ctx, artist, title, 25, 0)
	if err != nil {
		if errors.Is(err, musicbrainz.ErrNoResults) {
			fmt.Fprintf(p.out, "No catalog matches for %s - %s\n", artist, title)
			return nil, nil
		}
		// Catalog trouble should not block the pipeline; fall back to
		// manual entry and keep going.
		log.Printf("[WARN] Catalog search failed: %v", err)
		return nil, nil
	}
	fmt.Fprintf(p.out, "Found %d catalog matches\n", total)

	picked, err := p.prompter.PickRelease(releases)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, nil
	}

	// The search result carries no track listing; fetch the full release.
	full, err := p.catalog.GetRelease(ctx, picked.ID)
	if err != nil {
		log.Printf("[WARN] Release fetch failed: %v", err)
		return picked, nil
	}
	return full, nil
}

func (p *Pipeline) manualEntry(album *models.Album, artist, title string) error {
	var err error
	album.Artist, err = p.prompter.String("Artist", artist)
	if err != nil {
		return err
	}
	album.Title, err = p.prompter.String("Album title", title)
	if err != nil {
		return err
	}
	album.Year, err = p.prompter.String("Year", album.Year)
	if err != nil {
		return err
	}

	count, err := p.prompter.Int("Number of tracks", 1, 99)
	if err != nil {
		return err
	}
	names, err := p.prompter.TrackNames(count)
	if err != nil {
		return err
	}

	album.Tracks = make([]models.Track, 0, count)
	for i, name := range names {
		album.Tracks = append(album.Tracks, models.Track{
			Number: i + 1,
			Name:   name,
			// Duration unknown; the split stage falls back to silence
			// detection.
		})
	}
	return nil
}
