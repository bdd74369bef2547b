package types

import (
	"github.com/waxworks/sidecut/internal/database"
	"github.com/waxworks/sidecut/internal/services/library"
	"github.com/waxworks/sidecut/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB     *database.DB
	Albums library.AlbumService
	Config *config.Config
}
