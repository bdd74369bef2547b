package types

import (
	"github.com/waxworks/sidecut/internal/analysis"
	"github.com/waxworks/sidecut/internal/models"
)

// AlbumResponse is the API representation of an album's state
type AlbumResponse struct {
	FolderName    string          `json:"folder_name"`
	Status        string          `json:"status"`
	Artist        string          `json:"artist"`
	Title         string          `json:"title"`
	MusicBrainzID string          `json:"musicbrainz_id,omitempty"`
	Year          string          `json:"year,omitempty"`
	Genre         string          `json:"genre,omitempty"`
	Quality       string          `json:"quality"`
	Tracks        []TrackResponse `json:"tracks"`
}

// TrackResponse is the API representation of one track
type TrackResponse struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	File       string `json:"file,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// SegmentResponse is one detected track boundary pair
type SegmentResponse struct {
	TrackNumber int     `json:"track_number"`
	File        string  `json:"file"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`
	Short       bool    `json:"short"`
}

// AnalyzeResponse is the result of a boundary analysis run
type AnalyzeResponse struct {
	FolderName string            `json:"folder_name"`
	Strategy   string            `json:"strategy"`
	Segments   []SegmentResponse `json:"segments"`
}

// WaveformFile is the RMS series of one side recording
type WaveformFile struct {
	Name        string    `json:"name"`
	DurationSec float64   `json:"duration_sec"`
	RMS         []float64 `json:"rms"`
}

// WaveformResponse carries display-ready energy data for an album
type WaveformResponse struct {
	FolderName string         `json:"folder_name"`
	WindowSec  float64        `json:"window_sec"`
	Files      []WaveformFile `json:"files"`
}

// ToAlbumResponse converts a stored album to its API shape
func ToAlbumResponse(a *models.Album) AlbumResponse {
	tracks := make([]TrackResponse, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		tracks = append(tracks, TrackResponse{
			Number:     t.Number,
			Name:       t.Name,
			File:       t.File,
			DurationMS: t.DurationMS,
		})
	}
	return AlbumResponse{
		FolderName:    a.FolderName,
		Status:        string(a.Status),
		Artist:        a.Artist,
		Title:         a.Title,
		MusicBrainzID: a.MusicBrainzID,
		Year:          a.Year,
		Genre:         a.Genre,
		Quality:       a.Quality,
		Tracks:        tracks,
	}
}

// ToSegmentResponses converts detected segments, marking the flagged indices
func ToSegmentResponses(segments []analysis.TrackSegment, flagged []int) []SegmentResponse {
	isFlagged := make(map[int]bool, len(flagged))
	for _, idx := range flagged {
		isFlagged[idx] = true
	}

	out := make([]SegmentResponse, 0, len(segments))
	for i, seg := range segments {
		out = append(out, SegmentResponse{
			TrackNumber: seg.TrackNumber,
			File:        seg.Source.Path(),
			StartSec:    seg.StartSec,
			EndSec:      seg.EndSec,
			DurationSec: seg.Duration(),
			Short:       isFlagged[i],
		})
	}
	return out
}
