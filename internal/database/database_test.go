package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/internal/models"
)

func TestInitializeInMemory(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck())

	// migrations ran: both tables exist
	assert.True(t, db.Migrator().HasTable(&models.Album{}))
	assert.True(t, db.Migrator().HasTable(&models.Track{}))
}

func TestInitializeCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	db, err := Initialize(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck())
}

func TestAlbumRoundTrip(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	album := &models.Album{
		FolderName: "Miles Davis - Kind of Blue",
		Status:     models.StatusAnalyzed,
		Artist:     "Miles Davis",
		Title:      "Kind of Blue",
		Tracks: []models.Track{
			{Number: 1, Name: "So What", DurationMS: 545000},
			{Number: 2, Name: "Freddie Freeloader", DurationMS: 589000},
		},
	}
	require.NoError(t, db.Create(album).Error)

	var loaded models.Album
	require.NoError(t, db.Preload("Tracks").First(&loaded, "folder_name = ?", album.FolderName).Error)

	assert.Equal(t, models.StatusAnalyzed, loaded.Status)
	require.Len(t, loaded.Tracks, 2)
	assert.Equal(t, "So What", loaded.Tracks[0].Name)
}
