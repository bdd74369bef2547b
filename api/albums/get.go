package albums

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waxworks/sidecut/api/types"
	"github.com/waxworks/sidecut/internal/services/library"
)

// List handles GET /api/v1/albums
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		albums, err := deps.Albums.AllAlbums(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list albums"})
			return
		}

		out := make([]types.AlbumResponse, 0, len(albums))
		for i := range albums {
			out = append(out, types.ToAlbumResponse(&albums[i]))
		}
		c.JSON(http.StatusOK, gin.H{"albums": out, "count": len(out)})
	}
}

// GetByFolder handles GET /api/v1/albums/:folder
func GetByFolder(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		folder := c.Param("folder")

		album, err := deps.Albums.GetAlbum(c.Request.Context(), folder)
		if err != nil {
			if errors.Is(err, library.ErrAlbumNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Album not found"})
				return
			}
			if errors.Is(err, library.ErrInvalidFolder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder name"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load album"})
			return
		}

		c.JSON(http.StatusOK, types.ToAlbumResponse(album))
	}
}
