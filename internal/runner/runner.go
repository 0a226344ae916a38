package runner

import (
	"context"

	"github.com/cutekitek/challenge-console/internal/repository/models"
)

// Runner sends code to the challenge backend.
//
// Execute reports transport failures (including unreadable replies) as an
// error and otherwise returns the decoded body regardless of HTTP status.
// Submit additionally returns *backend.StatusError for non-2xx replies.
type Runner interface {
	Execute(ctx context.Context, code string) (*models.ExecutionResponse, error)
	Submit(ctx context.Context, challengeId int64, code string) (*models.SubmissionResponse, error)
}
