package models

// Attempt is the outcome of a submission as seen by the client. It is what
// the notification publisher emits next to every banner.
type Attempt struct {
	ChallengeId  int64            `json:"challenge_id"`
	Status       SubmissionStatus `json:"status"`
	PointsEarned float64          `json:"points_earned"`
	HTTPStatus   int              `json:"http_status,omitempty"`
}
