package controllers

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
)

type IntakeController interface {
	Intake(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type intakeController struct {
	logger outbound.LoggerPort
	intake inbound.IntakePort
}

func NewIntakeController(logger outbound.LoggerPort, intake inbound.IntakePort) IntakeController {
	return &intakeController{
		logger: logger,
		intake: intake,
	}
}

func (i *intakeController) Intake(c *gin.Context) {
	var request dto.IntakeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.String(http.StatusBadRequest, "request body must be a JSON object with a Url: %s", err.Error())
		return
	}

	document, err := i.intake.Intake(c.Request.Context(), inbound.IntakeParams{URL: request.Url})
	if err != nil {
		if domain.IsValidation(err) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}

		i.logger.ErrorWithFields(err, "Intake failed", map[string]interface{}{
			"url": request.Url,
		})

		var intakeErr *domain.IntakeError
		if errors.As(err, &intakeErr) {
			c.JSON(http.StatusInternalServerError, dto.IntakeFailureFromError(intakeErr))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewIntakeFailureResponse(err))
		return
	}

	c.JSON(http.StatusOK, document)
}

func (i *intakeController) RegisterRoutes(g *gin.Engine) {
	g.POST("/", i.Intake)
	g.POST("/intake", i.Intake)
}
