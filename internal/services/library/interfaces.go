package library

import (
	"context"

	"github.com/waxworks/sidecut/internal/models"
)

// AlbumService defines the interface for library state operations
type AlbumService interface {
	// GetAlbum retrieves an album's state by folder name
	GetAlbum(ctx context.Context, folderName string) (*models.Album, error)

	// GetOrInitAlbum retrieves an album's state, or initializes an
	// unpersisted record from the folder name when none exists
	GetOrInitAlbum(ctx context.Context, folderName string) (*models.Album, error)

	// SaveAlbum persists an album's state, replacing its track list
	SaveAlbum(ctx context.Context, album *models.Album) error

	// AllAlbums returns the state of every known album
	AllAlbums(ctx context.Context) ([]models.Album, error)

	// DiscoverFolders lists album folders in the library on disk
	DiscoverFolders() ([]string, error)

	// WavFiles lists an album folder's WAV files sorted by name, which
	// sorts recorder output by capture timestamp
	WavFiles(folderName string) ([]string, error)
}

// AlbumRepository defines the interface for album state data access
type AlbumRepository interface {
	// GetByFolder retrieves an album by its folder name
	GetByFolder(ctx context.Context, folderName string) (*models.Album, error)

	// Save upserts an album and its tracks
	Save(ctx context.Context, album *models.Album) error

	// All returns every album ordered by folder name
	All(ctx context.Context) ([]models.Album, error)
}
