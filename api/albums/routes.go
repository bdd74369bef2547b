package albums

import (
	"github.com/gin-gonic/gin"

	"github.com/waxworks/sidecut/api/types"
)

// RegisterRoutes registers album review routes on the v1 group
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies, analyzeLimit gin.HandlerFunc) {
	group.GET("/albums", List(deps))
	group.GET("/albums/:folder", GetByFolder(deps))
	group.GET("/albums/:folder/waveform", GetWaveform(deps))
	group.POST("/albums/:folder/analyze", analyzeLimit, PostAnalyze(deps))
}
