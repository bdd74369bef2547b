package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/waxworks/sidecut/internal/analysis"
	"github.com/waxworks/sidecut/internal/models"
	"github.com/waxworks/sidecut/internal/ui"
	"github.com/waxworks/sidecut/pkg/wav"
)

// split determines track boundaries across the album's side recordings and
// writes one WAV per track into the album folder.
func (p *Pipeline) split(ctx context.Context, album *models.Album) error {
	files, err := p.albums.WavFiles(album.FolderName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no wav files in %s", album.FolderName)
	}

	originals := make([]string, len(files))
	for i, f := range files {
		originals[i] = filepath.Base(f)
	}
	if err := album.SetOriginalFiles(originals); err != nil {
		return err
	}

	sources := make([]analysis.Source, 0, len(files))
	for _, f := range files {
		wf, err := wav.Open(f)
		if err != nil {
			return err
		}
		sources = append(sources, wf)
	}

	segments, err := analysis.Segment(sources, p.segmentOptions(album))
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("no segments found in %s", album.FolderName)
	}

	segments, err = p.reviewShortSegments(segments)
	if err != nil {
		return err
	}

	if err := p.nameSegments(segments, album.Tracks); err != nil {
		return err
	}

	ui.PrintSplitPreview(p.out, segments)
	ok, err := p.prompter.Confirm("Write split tracks?", true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("split of %s aborted", album.FolderName)
	}

	return p.writeSegments(ctx, album, segments)
}

func (p *Pipeline) segmentOptions(album *models.Album) analysis.Options {
	a := p.cfg.Analysis

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

// reviewShortSegments shows anomalously short segments and lets the user
// drop them before extraction. Deletion renumbers the survivors.
func (p *Pipeline) reviewShortSegments(segments []analysis.TrackSegment) ([]analysis.TrackSegment, error) {
	flagged := analysis.FlagShortSegments(segments)
	if len(flagged) == 0 {
		return segments, nil
	}

	ui.PrintShortSegments(p.out, segments, flagged)
	drop, err := p.prompter.Confirm("Delete flagged segments?", true)
	if err != nil {
		return nil, err
	}
	if !drop {
		return segments, nil
	}

	isFlagged := make(map[int]bool, len(flagged))
	for _, idx := range flagged {
		isFlagged[idx] = true
	}
	kept := segments[:0]
	for i, seg := range segments {
		if !isFlagged[i] {
			kept = append(kept, seg)
		}
	}
	analysis.RenumberSegments(kept)
	return kept, nil
}

// nameSegments assigns catalog track names when the counts line up, and
// prompts for names otherwise.
func (p *Pipeline) nameSegments(segments []analysis.TrackSegment, tracks []models.Track) error {
	if len(tracks) == len(segments) {
		for i := range segments {
			segments[i].TrackName = tracks[i].Name
		}
		return nil
	}

	fmt.Fprintf(p.out, "Found %d segments but expected %d tracks\n", len(segments), len(tracks))
	names, err := p.prompter.TrackNames(len(segments))
	if err != nil {
		return err
	}
	for i := range segments {
		segments[i].TrackName = names[i]
	}
	return nil
}

// writeSegments extracts each segment into "NN - Name.wav" and rewrites the
// album's track list from what actually landed on disk.
func (p *Pipeline) writeSegments(ctx context.Context, album *models.Album, segments []analysis.TrackSegment) error {
	dir := filepath.Join(p.cfg.Library.Path, album.FolderName)
	pad := 2
	if len(segments) >= 100 {
		pad = 3
	}

	album.Tracks = make([]models.Track, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, ok := seg.Source.(*wav.File)
		if !ok {
			return fmt.Errorf("segment %d has no file-backed source", seg.TrackNumber)
		}

		name := seg.TrackName
		if name == "" {
			name = fmt.Sprintf("Track %d", seg.TrackNumber)
		}
		fileName := fmt.Sprintf("%0*d - %s.wav", pad, seg.TrackNumber, sanitizeFileName(name))
		outPath := filepath.Join(dir, fileName)

		// A segment spanning its whole source needs no re-encode.
		if seg.StartSec == 0 && seg.EndSec == src.Duration() {
			if err := copyFile(src.Path(), outPath); err != nil {
				return err
			}
		} else {
			data, err := src.Extract(seg.StartSec, seg.EndSec)
			if err != nil {
				return err
			}
			if err := wav.WriteFile(outPath, src.Format(), data); err != nil {
				return err
			}
		}

		album.Tracks = append(album.Tracks, models.Track{
			Number:     seg.TrackNumber,
			Name:       name,
			File:       fileName,
			DurationMS: int64(math.Round(seg.Duration() * 1000)),
		})
	}

	return nil
}

// sanitizeFileName replaces characters that are unsafe in file names
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
