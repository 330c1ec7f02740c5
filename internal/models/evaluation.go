package models

import "strings"

// Evaluation lifecycle states. A session always re-enters StatusLoading by user
// action; there is no automatic success -> loading transition.
const (
	StatusIdle    = "idle"
	StatusLoading = "loading"
	StatusSuccess = "success"
	StatusError   = "error"
)

// StudentInfo holds the form fields describing who is being evaluated. All four
// fields must be non-empty before an evaluation may be submitted.
type StudentInfo struct {
	FirstName string
	LastName  string
	Group     string
	Subject   string
}

// FullName joins the first and last name for prompt interpolation.
func (s StudentInfo) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Complete reports whether every required field is filled in.
func (s StudentInfo) Complete() bool {
	return strings.TrimSpace(s.FirstName) != "" &&
		strings.TrimSpace(s.LastName) != "" &&
		strings.TrimSpace(s.Group) != "" &&
		strings.TrimSpace(s.Subject) != ""
}

// GradingConfig describes the grading scale and criteria. Both are opaque free
// text interpolated into the model instruction without further parsing.
type GradingConfig struct {
	GradingSystem string
	Criteria      string
}

// EvaluationResult is the session's result slot. Score and Summary are
// best-effort extractions and may carry sentinel placeholders; Details always
// holds the full raw model response on success.
type EvaluationResult struct {
	Status  string
	Score   string
	Summary string
	Details string
	Error   string
}
