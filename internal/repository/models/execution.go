package models

// Wire payloads of the challenge backend. Field names follow the JSON the
// backend emits, see challenges/execute and challenges/submit.

type ExecutionRequest struct {
	Code string `json:"code"`
}

type ExecutionResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

type SubmissionRequest struct {
	Code string `json:"code"`
}

type SubmissionStatus string

const (
	SubmissionStatusCorrect   SubmissionStatus = "correct"
	SubmissionStatusIncorrect SubmissionStatus = "incorrect"
)

type SubmissionResponse struct {
	Status       SubmissionStatus `json:"status"`
	PointsEarned float64          `json:"points_earned"`
	Output       string           `json:"output,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// ErrorResponse is the body of non-2xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
