package musicbrainz

import (
	"fmt"
	"strings"
)

// Track is one track of a release's listing
type Track struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	DurationMS int64  `json:"duration_ms"` // 0 when MusicBrainz has no length
}

// Release is a MusicBrainz release (one concrete issue of an album)
type Release struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Year       string  `json:"year,omitempty"`
	Country    string  `json:"country,omitempty"`
	Format     string  `json:"format,omitempty"`
	TrackCount int     `json:"track_count"`
	Tracks     []Track `json:"tracks,omitempty"`
}

// Summary returns a one-line description for pick lists
func (r Release) Summary() string {
	parts := []string{fmt.Sprintf("%s - %s", r.Artist, r.Title)}
	if r.Year != "" {
		parts = append(parts, fmt.Sprintf("(%s)", r.Year))
	}
	parts = append(parts, fmt.Sprintf("[%d tracks]", r.TrackCount))
	if r.Country != "" {
		parts = append(parts, fmt.Sprintf("[%s]", r.Country))
	}
	if r.Format != "" {
		parts = append(parts, fmt.Sprintf("[%s]", r.Format))
	}
	return strings.Join(parts, " ")
}

// wire types for the ws/2 JSON API

type searchResponse struct {
	Count    int           `json:"count"`
	Releases []wireRelease `json:"releases"`
}

type wireRelease struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Date         string       `json:"date"`
	Country      string       `json:"country"`
	ArtistCredit []wireCredit `json:"artist-credit"`
	Media        []wireMedium `json:"media"`
}

type wireCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type wireMedium struct {
	Format     string      `json:"format"`
	TrackCount int         `json:"track-count"`
	Tracks     []wireTrack `json:"tracks"`
}

type wireTrack struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Length   int64  `json:"length"` // milliseconds
	Recording struct {
		Length int64 `json:"length"`
	} `json:"recording"`
}

func (w wireRelease) toRelease() Release {
	rel := Release{
		ID:      w.ID,
		Title:   w.Title,
		Country: w.Country,
	}
	if len(w.Date) >= 4 {
		rel.Year = w.Date[:4]
	} else {
		rel.Year = w.Date
	}

	var artist strings.Builder
	for _, c := range w.ArtistCredit {
		artist.WriteString(c.Name)
		artist.WriteString(c.JoinPhrase)
	}
	rel.Artist = artist.String()

	number := 0
	for _, m := range w.Media {
		rel.TrackCount += m.TrackCount
		if rel.Format == "" {
			rel.Format = m.Format
		}
		for _, t := range m.Tracks {
			number++
			length := t.Length
			if length == 0 {
				length = t.Recording.Length
			}
			rel.Tracks = append(rel.Tracks, Track{
				Number:     number,
				Title:      t.Title,
				DurationMS: length,
			})
		}
	}
	if rel.TrackCount == 0 {
		rel.TrackCount = len(rel.Tracks)
	}

	return rel
}
