package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// AlbumStatus is the processing stage an album has reached
type AlbumStatus string

const (
	StatusRaw       AlbumStatus = "raw"
	StatusAnalyzed  AlbumStatus = "analyzed"
	StatusSplit     AlbumStatus = "split"
	StatusConverted AlbumStatus = "converted"
	StatusDone      AlbumStatus = "done"
)

var statusOrder = []AlbumStatus{StatusRaw, StatusAnalyzed, StatusSplit, StatusConverted, StatusDone}

// Next returns the stage after this one, or empty when already done
func (s AlbumStatus) Next() AlbumStatus {
	for i, st := range statusOrder {
		if st == s && i+1 < len(statusOrder) {
			return statusOrder[i+1]
		}
	}
	return ""
}

// Valid reports whether the status is a known stage
func (s AlbumStatus) Valid() bool {
	for _, st := range statusOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Quality levels for the FLAC conversion stage
const (
	QualityHiRes = "hi-res"
	QualityCD    = "cd"
)

// Album tracks the processing state of one album folder in the library
type Album struct {
	gorm.Model
	FolderName    string      `json:"folder_name" gorm:"not null;uniqueIndex"`
	Status        AlbumStatus `json:"status" gorm:"not null;default:raw"`
	Artist        string      `json:"artist"`
	Title         string      `json:"title"`
	MusicBrainzID string      `json:"musicbrainz_id,omitempty"`
	Year          string      `json:"year,omitempty"`
	Genre         string      `json:"genre,omitempty"`
	Quality       string      `json:"quality" gorm:"default:hi-res"`
	OriginalData  []byte      `json:"-" gorm:"type:blob"` // JSON-encoded []string of original file names
	Tracks        []Track     `json:"tracks" gorm:"constraint:OnDelete:CASCADE"`
}

// OriginalFiles returns the decoded original source file names
func (a *Album) OriginalFiles() ([]string, error) {
	if len(a.OriginalData) == 0 {
		return nil, nil
	}
	var files []string
	if err := json.Unmarshal(a.OriginalData, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// SetOriginalFiles encodes and sets the original source file names
func (a *Album) SetOriginalFiles(files []string) error {
	data, err := json.Marshal(files)
	if err != nil {
		return err
	}
	a.OriginalData = data
	return nil
}

// Track is one expected or produced track of an album
type Track struct {
	gorm.Model
	AlbumID    uint   `json:"-" gorm:"not null;index"`
	Number     int    `json:"number" gorm:"not null"`
	Name       string `json:"name"`
	File       string `json:"file,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"` // 0 when unknown
}
