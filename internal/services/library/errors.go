package library

import "errors"

var (
	// ErrAlbumNotFound is returned when no state exists for a folder
	ErrAlbumNotFound = errors.New("album not found")

	// ErrInvalidFolder is returned when a folder name is empty or unsafe
	ErrInvalidFolder = errors.New("invalid album folder")
)
