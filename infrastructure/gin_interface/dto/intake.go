package dto

import (
	"article-narration-pipeline/domain"
)

type IntakeRequest struct {
	Url string `json:"Url"`
}

// IntakeFailureResponse is the 500 payload; Partial holds whatever the intake built before it stopped.
type IntakeFailureResponse struct {
	Error     string                 `json:"error"`
	Step      string                 `json:"step,omitempty"`
	Partial   map[string]interface{} `json:"partial,omitempty"`
	FailedOps []domain.FailedOp      `json:"FailedOps,omitempty"`
}

func NewIntakeFailureResponse(err error) IntakeFailureResponse {
	return IntakeFailureResponse{Error: err.Error()}
}

func IntakeFailureFromError(intakeErr *domain.IntakeError) IntakeFailureResponse {
	return IntakeFailureResponse{
		Error:     intakeErr.Err.Error(),
		Step:      intakeErr.Step,
		Partial:   intakeErr.Partial,
		FailedOps: intakeErr.FailedOps,
	}
}
