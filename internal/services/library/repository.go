package library

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/waxworks/sidecut/internal/database"
	"github.com/waxworks/sidecut/internal/models"
)

// repository implements AlbumRepository on the sqlite state database
type repository struct {
	db *database.DB
}

// NewRepository creates a new album repository
func NewRepository(db *database.DB) AlbumRepository {
	return &repository{db: db}
}

// GetByFolder retrieves an album by its folder name
func (r *repository) GetByFolder(ctx context.Context, folderName string) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Where("folder_name = ?", folderName).
		First(&album).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	return &album, nil
}

// Save upserts an album. The track list is replaced wholesale: stages
// rewrite it as segmentation and naming decisions change.
func (r *repository) Save(ctx context.Context, album *models.Album) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if album.ID != 0 {
			if err := tx.Where("album_id = ?", album.ID).Delete(&models.Track{}).Error; err != nil {
				return err
			}
			for i := range album.Tracks {
				album.Tracks[i].ID = 0
				album.Tracks[i].AlbumID = album.ID
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(album).Error
	})
}

// All returns every album ordered by folder name
func (r *repository) All(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Order("folder_name").
		Find(&albums).Error
	if err != nil {
		return nil, err
	}
	return albums, nil
}
