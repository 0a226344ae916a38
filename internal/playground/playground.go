package playground

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cutekitek/challenge-console/internal/backend"
	"github.com/cutekitek/challenge-console/internal/mappers"
	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	PendingText   = "Executing code..."
	SubmitPrompt  = "Are you sure you want to submit this solution?"
	ResetPrompt   = "Are you sure you want to reset the code?"
	ReadFailedMsg = "Failed to read code"
)

var ErrNoEditor = errors.New("no editor configured")

type Playground struct {
	cfg Config
	// nil unless Serialize is set
	sem     *semaphore.Weighted
	pending sync.WaitGroup
}

func New(cfg Config) (*Playground, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	p := &Playground{cfg: cfg}
	if cfg.Serialize {
		p.sem = semaphore.NewWeighted(1)
	}
	return p, nil
}

// Execute runs code on the backend without grading it.
func (p *Playground) Execute(ctx context.Context, code string) dto.DisplayResult {
	if strings.TrimSpace(code) == "" {
		return p.apply(mappers.EmptyCode(mappers.EmptyExecuteText))
	}

	if err := p.acquire(ctx); err != nil {
		return p.apply(mappers.ExecutionFailed(err))
	}
	defer p.release()

	p.setBusy(true)
	defer p.setBusy(false)
	p.cfg.Panel.Show(dto.StatePending, PendingText)

	resp, err := p.cfg.Runner.Execute(ctx, code)
	if err != nil {
		slog.Warn("execution request failed", "error", err)
		return p.apply(mappers.ExecutionFailed(err))
	}
	return p.apply(mappers.ExecutionToDisplay(resp))
}

// Submit grades code against a challenge after the user confirmed it. A
// correct answer schedules one reload after the configured delay.
func (p *Playground) Submit(ctx context.Context, challengeId int64, code string) dto.DisplayResult {
	if strings.TrimSpace(code) == "" {
		return p.apply(mappers.EmptyCode(mappers.EmptySubmitText))
	}
	if !p.confirm(ctx, SubmitPrompt) {
		return dto.DisplayResult{State: dto.StateAborted}
	}

	if err := p.acquire(ctx); err != nil {
		return p.apply(mappers.SubmissionFailedToSend(err))
	}
	defer p.release()

	p.setBusy(true)
	defer p.setBusy(false)

	resp, err := p.cfg.Runner.Submit(ctx, challengeId, code)
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			slog.Warn("submission rejected", "challenge", challengeId, "status", statusErr.Code, "error", statusErr.Message)
			p.record(ctx, mappers.SubmissionToAttempt(challengeId, statusErr.Code, nil))
			return p.apply(mappers.SubmissionRejected(statusErr.Message))
		}
		slog.Warn("submission request failed", "challenge", challengeId, "error", err)
		return p.apply(mappers.SubmissionFailedToSend(err))
	}

	slog.Info("submission graded", "challenge", challengeId, "status", resp.Status, "points", resp.PointsEarned)
	p.record(ctx, mappers.SubmissionToAttempt(challengeId, 0, resp))
	result := p.apply(mappers.SubmissionToDisplay(resp))
	if resp.Status == models.SubmissionStatusCorrect {
		result.Reload = p.scheduleReload()
	}
	return result
}

// ExecuteEditor runs the current editor contents.
func (p *Playground) ExecuteEditor(ctx context.Context) dto.DisplayResult {
	code, result, ok := p.readEditor()
	if !ok {
		return result
	}
	return p.Execute(ctx, code)
}

// SubmitEditor submits the current editor contents.
func (p *Playground) SubmitEditor(ctx context.Context, challengeId int64) dto.DisplayResult {
	code, result, ok := p.readEditor()
	if !ok {
		return result
	}
	return p.Submit(ctx, challengeId, code)
}

// Reset puts the starter code of a challenge back into the editor after
// the user confirmed it. An empty starter leaves the editor untouched.
func (p *Playground) Reset(ctx context.Context, challengeId int64) (dto.DisplayResult, error) {
	if p.cfg.Editor == nil {
		return dto.DisplayResult{}, ErrNoEditor
	}
	if p.cfg.Starter == nil {
		return dto.DisplayResult{}, errors.Wrap(ErrConfiguration, "no starter source configured")
	}
	if !p.confirm(ctx, ResetPrompt) {
		return dto.DisplayResult{State: dto.StateAborted}, nil
	}

	starter, err := p.cfg.Starter.StarterCode(ctx, challengeId)
	if err != nil {
		return dto.DisplayResult{}, errors.Wrap(err, "failed to load starter code")
	}
	if starter == "" {
		return dto.DisplayResult{State: dto.StateAborted}, nil
	}
	if err := p.cfg.Editor.SetValue(starter); err != nil {
		return dto.DisplayResult{}, errors.Wrap(err, "failed to restore code")
	}
	return p.apply(dto.DisplayResult{
		State:        dto.StateSuccess,
		Notification: &dto.Notification{Level: dto.LevelInfo, Message: "Code reset to the original version."},
	}), nil
}

// Wait blocks until every scheduled reload has run.
func (p *Playground) Wait() {
	p.pending.Wait()
}

func (p *Playground) readEditor() (string, dto.DisplayResult, bool) {
	if p.cfg.Editor == nil {
		return "", p.apply(dto.DisplayResult{
			State:        dto.StateError,
			Notification: &dto.Notification{Level: dto.LevelDanger, Message: ReadFailedMsg + ": " + ErrNoEditor.Error()},
		}), false
	}
	code, err := p.cfg.Editor.Value()
	if err != nil {
		slog.Error("failed to read editor", "error", err)
		return "", p.apply(dto.DisplayResult{
			State:        dto.StateError,
			Notification: &dto.Notification{Level: dto.LevelDanger, Message: ReadFailedMsg + ": " + err.Error()},
		}), false
	}
	return code, dto.DisplayResult{}, true
}

func (p *Playground) confirm(ctx context.Context, prompt string) bool {
	ok, err := p.cfg.Confirmer.Confirm(ctx, prompt)
	if err != nil {
		slog.Warn("confirmation failed, treating as declined", "error", err)
		return false
	}
	return ok
}

func (p *Playground) scheduleReload() bool {
	if p.cfg.Reloader == nil {
		return false
	}
	p.pending.Add(1)
	p.cfg.Scheduler.AfterFunc(p.cfg.ReloadDelay, func() {
		defer p.pending.Done()
		p.cfg.Reloader.Reload()
	})
	return true
}

func (p *Playground) apply(result dto.DisplayResult) dto.DisplayResult {
	if result.Notification != nil {
		p.cfg.Notifier.Notify(*result.Notification)
	}
	if result.UpdatesPanel() {
		p.cfg.Panel.Show(result.State, result.Text)
	}
	return result
}

func (p *Playground) record(ctx context.Context, attempt *models.Attempt) {
	if p.cfg.Attempts != nil {
		p.cfg.Attempts.RecordAttempt(ctx, attempt)
	}
}

func (p *Playground) setBusy(busy bool) {
	if p.cfg.Busy != nil {
		p.cfg.Busy.SetBusy(busy)
	}
}

func (p *Playground) acquire(ctx context.Context) error {
	if p.sem == nil {
		return nil
	}
	return p.sem.Acquire(ctx, 1)
}

func (p *Playground) release() {
	if p.sem != nil {
		p.sem.Release(1)
	}
}
