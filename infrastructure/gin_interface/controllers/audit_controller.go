package controllers

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"net/http"
	"time"
)

type AuditController interface {
	FindStuck(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type auditController struct {
	logger           outbound.LoggerPort
	auditor          inbound.AuditPort
	defaultOlderThan time.Duration
}

func NewAuditController(logger outbound.LoggerPort, auditor inbound.AuditPort, defaultOlderThan time.Duration) AuditController {
	return &auditController{
		logger:           logger,
		auditor:          auditor,
		defaultOlderThan: defaultOlderThan,
	}
}

func (a *auditController) FindStuck(c *gin.Context) {
	olderThan := a.defaultOlderThan
	if raw := c.Query("older_than"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			c.String(http.StatusBadRequest, "older_than must be a positive duration such as 30m")
			return
		}
		olderThan = parsed
	}

	stuck, err := a.auditor.FindStuck(c.Request.Context(), olderThan)
	if err != nil {
		a.logger.Error(err, "Failed to audit metadata")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAuditResponse(olderThan, stuck))
}

func (a *auditController) RegisterRoutes(g *gin.Engine) {
	g.GET("/audit", a.FindStuck)
}
