package library

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/waxworks/sidecut/internal/models"
)

// archiveFolder is excluded from discovery; completed originals land there
const archiveFolder = "archive"

// service implements AlbumService
type service struct {
	repo        AlbumRepository
	libraryPath string
}

// NewService creates a new library service rooted at libraryPath
func NewService(repo AlbumRepository, libraryPath string) AlbumService {
	return &service{
		repo:        repo,
		libraryPath: libraryPath,
	}
}

// ParseFolderName splits an "Artist - Album" folder name. A name without the
// separator is treated as an album title with no artist (compilations).
func ParseFolderName(folderName string) (artist, title string) {
	if idx := strings.Index(folderName, " - "); idx >= 0 {
		return strings.TrimSpace(folderName[:idx]), strings.TrimSpace(folderName[idx+3:])
	}
	return "", strings.TrimSpace(folderName)
}

// GetAlbum retrieves an album's state by folder name
func (s *service) GetAlbum(ctx context.Context, folderName string) (*models.Album, error) {
	if folderName == "" {
		return nil, ErrInvalidFolder
	}
	return s.repo.GetByFolder(ctx, folderName)
}

// GetOrInitAlbum retrieves an album's state, or initializes a fresh record
// from the folder name when none is persisted yet
func (s *service) GetOrInitAlbum(ctx context.Context, folderName string) (*models.Album, error) {
	album, err := s.GetAlbum(ctx, folderName)
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, ErrAlbumNotFound) {
		return nil, err
	}

	artist, title := ParseFolderName(folderName)
	log.Printf("[DEBUG] No state for %q, initializing artist=%q title=%q", folderName, artist, title)

	return &models.Album{
		FolderName: folderName,
		Status:     models.StatusRaw,
		Artist:     artist,
		Title:      title,
		Quality:    models.QualityHiRes,
	}, nil
}

// SaveAlbum persists an album's state
func (s *service) SaveAlbum(ctx context.Context, album *models.Album) error {
	if album.FolderName == "" {
		return ErrInvalidFolder
	}
	if !album.Status.Valid() {
		album.Status = models.StatusRaw
	}
	return s.repo.Save(ctx, album)
}

// AllAlbums returns the state of every known album
func (s *service) AllAlbums(ctx context.Context) ([]models.Album, error) {
	return s.repo.All(ctx)
}

// DiscoverFolders lists album folders in the library, skipping hidden
// entries and the archive folder
func (s *service) DiscoverFolders() ([]string, error) {
	entries, err := os.ReadDir(s.libraryPath)
	if err != nil {
		return nil, err
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || e.Name() == archiveFolder {
			continue
		}
		folders = append(folders, e.Name())
	}
	sort.Strings(folders)
	return folders, nil
}

// WavFiles lists the WAV files of an album folder sorted by name. Recorder
// file names embed the capture timestamp, so name order is playback order.
func (s *service) WavFiles(folderName string) ([]string, error) {
	if folderName == "" || strings.Contains(folderName, "..") {
		return nil, ErrInvalidFolder
	}

	pattern := filepath.Join(s.libraryPath, folderName, "*.wav")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
