package lambda_interface

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"github.com/aws/aws-lambda-go/events"
	"net/http"
)

type IntakeHandler struct {
	logger outbound.LoggerPort
	intake inbound.IntakePort
}

func NewIntakeHandler(logger outbound.LoggerPort, intake inbound.IntakePort) *IntakeHandler {
	return &IntakeHandler{
		logger: logger,
		intake: intake,
	}
}

func (h *IntakeHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return textResponse(http.StatusBadRequest, "request body is not valid base64"), nil
		}
		body = decoded
	}

	var intakeRequest dto.IntakeRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &intakeRequest); err != nil {
			return textResponse(http.StatusBadRequest, "request body must be a JSON object with a Url: "+err.Error()), nil
		}
	}

	document, err := h.intake.Intake(ctx, inbound.IntakeParams{URL: intakeRequest.Url})
	if err != nil {
		if domain.IsValidation(err) {
			return textResponse(http.StatusBadRequest, err.Error()), nil
		}

		h.logger.ErrorWithFields(err, "Intake failed", map[string]interface{}{
			"url": intakeRequest.Url,
		})

		failure := dto.NewIntakeFailureResponse(err)
		var intakeErr *domain.IntakeError
		if errors.As(err, &intakeErr) {
			failure = dto.IntakeFailureFromError(intakeErr)
		}
		return jsonResponse(http.StatusInternalServerError, failure)
	}

	return jsonResponse(http.StatusOK, document)
}

func textResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       body,
	}
}

func jsonResponse(status int, payload interface{}) (events.APIGatewayProxyResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}, nil
}
