package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumStatusNext(t *testing.T) {
	tests := []struct {
		status AlbumStatus
		next   AlbumStatus
	}{
		{StatusRaw, StatusAnalyzed},
		{StatusAnalyzed, StatusSplit},
		{StatusSplit, StatusConverted},
		{StatusConverted, StatusDone},
		{StatusDone, ""},
		{AlbumStatus("bogus"), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.next, tt.status.Next(), "Next() of %q", tt.status)
	}
}

func TestAlbumStatusValid(t *testing.T) {
	assert.True(t, StatusRaw.Valid())
	assert.True(t, StatusDone.Valid())
	assert.False(t, AlbumStatus("").Valid())
	assert.False(t, AlbumStatus("pending").Valid())
}

func TestAlbumOriginalFiles(t *testing.T) {
	var album Album

	files, err := album.OriginalFiles()
	require.NoError(t, err)
	assert.Nil(t, files)

	want := []string{"2024-05-01 14.02.11.wav", "2024-05-01 14.25.30.wav"}
	require.NoError(t, album.SetOriginalFiles(want))

	files, err = album.OriginalFiles()
	require.NoError(t, err)
	assert.Equal(t, want, files)
}
