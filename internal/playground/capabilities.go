package playground

import (
	"context"
	"time"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
)

// Capabilities must be safe for concurrent use, overlapping calls write to
// them from different goroutines.

// Editor is the code buffer.
type Editor interface {
	Value() (string, error)
	SetValue(code string) error
}

// Panel is the output region.
type Panel interface {
	Show(state dto.State, text string)
}

type Notifier interface {
	Notify(n dto.Notification)
}

type BusyIndicator interface {
	SetBusy(busy bool)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Reloader interface {
	Reload()
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// StarterSource yields the code a challenge starts with.
type StarterSource interface {
	StarterCode(ctx context.Context, challengeId int64) (string, error)
}

// AttemptRecorder receives the outcome of every answered submission.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt *models.Attempt)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Notifiers fans a banner out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(n dto.Notification) {
	for _, notifier := range ns {
		notifier.Notify(n)
	}
}
