package controllers

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"net/http"
)

type EventsController interface {
	Dispatch(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type eventsController struct {
	logger outbound.LoggerPort
	router inbound.RouterPort
}

func NewEventsController(logger outbound.LoggerPort, router inbound.RouterPort) EventsController {
	return &eventsController{
		logger: logger,
		router: router,
	}
}

// Dispatch accepts an S3 notification and routes every record to its stage. Item failures are
// part of the 200 report.
func (e *eventsController) Dispatch(c *gin.Context) {
	var event events.S3Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.String(http.StatusBadRequest, "request body must be an S3 event notification: %s", err.Error())
		return
	}

	report := e.router.Dispatch(c.Request.Context(), dto.BatchFromS3Event(event))

	e.logger.InfoWithFields("Event batch dispatched", map[string]interface{}{
		"records":   len(event.Records),
		"succeeded": len(report.SuccessfulOps),
		"failed":    len(report.FailedOps),
	})

	c.JSON(http.StatusOK, report)
}

func (e *eventsController) RegisterRoutes(g *gin.Engine) {
	g.POST("/events", e.Dispatch)
}
