package dto

import "github.com/baholash/baholash-api/internal/models"

// StudentInfoRequest carries the form fields describing the student. All four
// are required before an evaluation may run.
type StudentInfoRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Group     string `json:"group" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
}

// GradingConfigRequest carries the grading scale description and the
// newline-delimited criteria list. Both are opaque free text.
type GradingConfigRequest struct {
	GradingSystem string `json:"grading_system" validate:"required"`
	Criteria      string `json:"criteria" validate:"required"`
}

// EvaluationResultResponse serializes the session's result slot.
type EvaluationResultResponse struct {
	Status  string `json:"status"`
	Score   string `json:"score,omitempty"`
	Summary string `json:"summary,omitempty"`
	Details string `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SessionResponse is the full session snapshot returned to the browser.
type SessionResponse struct {
	ID          string                   `json:"id"`
	Student     StudentInfoRequest       `json:"student"`
	Grading     GradingConfigRequest     `json:"grading"`
	HasDocument bool                     `json:"has_document"`
	Result      EvaluationResultResponse `json:"result"`
}

// NewEvaluationResultResponse maps the model result to its wire form.
func NewEvaluationResultResponse(result models.EvaluationResult) EvaluationResultResponse {
	status := result.Status
	if status == "" {
		status = models.StatusIdle
	}
	return EvaluationResultResponse{
		Status:  status,
		Score:   result.Score,
		Summary: result.Summary,
		Details: result.Details,
		Error:   result.Error,
	}
}
