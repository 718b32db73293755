package controllers

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"article-narration-pipeline/middleware"
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
)

type AssetsController interface {
	GetAsset(c *gin.Context)
	StreamAsset(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type assetsController struct {
	logger  outbound.LoggerPort
	tracker inbound.AssetTrackerPort
}

func NewAssetsController(logger outbound.LoggerPort, tracker inbound.AssetTrackerPort) AssetsController {
	return &assetsController{
		logger:  logger,
		tracker: tracker,
	}
}

func (a *assetsController) GetAsset(c *gin.Context) {
	id := domain.AssetID(c.Param("id"))

	record, err := a.tracker.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		a.logger.ErrorWithFields(err, "Failed to read asset", map[string]interface{}{
			"asset_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAssetResponse(*record))
}

// StreamAsset sends a "status" event whenever the record changes and "complete" once the asset
// stops advancing.
func (a *assetsController) StreamAsset(c *gin.Context) {
	id := domain.AssetID(c.Param("id"))
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	records, errCh := a.tracker.Watch(ctx, id)

	var last *domain.MetadataRecord
	for record := range records {
		current := record
		last = &current
		c.SSEvent("status", dto.NewAssetResponse(record))
		c.Writer.Flush()
	}

	if err := <-errCh; err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			a.logger.ErrorWithFields(err, "Asset watch failed", map[string]interface{}{
				"asset_id": id,
			})
		}
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
		return
	}

	if last != nil && last.Terminal() {
		c.SSEvent("complete", dto.NewAssetResponse(*last))
		c.Writer.Flush()
	}
}

func (a *assetsController) RegisterRoutes(g *gin.Engine) {
	g.GET("/assets/:id", a.GetAsset)
	g.GET("/assets/:id/events", middleware.SSEHeaders(), a.StreamAsset)
}
