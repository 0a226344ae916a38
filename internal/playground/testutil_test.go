package playground

import (
	"context"
	"sync"
	"time"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
)

type executeCall struct {
	code string
}

type submitCall struct {
	challengeId int64
	code        string
}

// mockRunner implements runner.Runner for testing.
type mockRunner struct {
	mu sync.Mutex

	executeResult *models.ExecutionResponse
	executeErr    error
	submitResult  *models.SubmissionResponse
	submitErr     error
	// called while the request is in flight
	onCall func()

	executeCalls []executeCall
	submitCalls  []submitCall
}

func (m *mockRunner) Execute(_ context.Context, code string) (*models.ExecutionResponse, error) {
	m.mu.Lock()
	m.executeCalls = append(m.executeCalls, executeCall{code: code})
	onCall := m.onCall
	m.mu.Unlock()
	if onCall != nil {
		onCall()
	}
	return m.executeResult, m.executeErr
}

func (m *mockRunner) Submit(_ context.Context, challengeId int64, code string) (*models.SubmissionResponse, error) {
	m.mu.Lock()
	m.submitCalls = append(m.submitCalls, submitCall{challengeId: challengeId, code: code})
	onCall := m.onCall
	m.mu.Unlock()
	if onCall != nil {
		onCall()
	}
	return m.submitResult, m.submitErr
}

func (m *mockRunner) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.executeCalls) + len(m.submitCalls)
}

type panelWrite struct {
	state dto.State
	text  string
}

type recordingPanel struct {
	mu     sync.Mutex
	writes []panelWrite
}

func (p *recordingPanel) Show(state dto.State, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, panelWrite{state: state, text: text})
}

func (p *recordingPanel) last() (panelWrite, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.writes) == 0 {
		return panelWrite{}, false
	}
	return p.writes[len(p.writes)-1], true
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []dto.Notification
}

func (n *recordingNotifier) Notify(note dto.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, note)
}

type recordingBusy struct {
	mu      sync.Mutex
	busy    bool
	toggles []bool
}

func (b *recordingBusy) SetBusy(busy bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = busy
	b.toggles = append(b.toggles, busy)
}

func (b *recordingBusy) isBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

type stubConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (c *stubConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, c.err
}

// manualScheduler records scheduled functions and runs them on demand.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.funcs = append(s.funcs, f)
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	funcs := s.funcs
	s.funcs = nil
	s.mu.Unlock()
	for _, f := range funcs {
		f()
	}
}

type countingReloader struct {
	mu    sync.Mutex
	count int
}

func (r *countingReloader) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func (r *countingReloader) reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

type memoryEditor struct {
	mu      sync.Mutex
	code    string
	readErr error
}

func (e *memoryEditor) Value() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.code, e.readErr
}

func (e *memoryEditor) SetValue(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.code = code
	return nil
}

type staticStarter struct {
	code string
	err  error
}

func (s staticStarter) StarterCode(_ context.Context, _ int64) (string, error) {
	return s.code, s.err
}

type recordingAttempts struct {
	mu       sync.Mutex
	attempts []*models.Attempt
}

func (r *recordingAttempts) RecordAttempt(_ context.Context, attempt *models.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
}

type fixture struct {
	runner    *mockRunner
	panel     *recordingPanel
	notifier  *recordingNotifier
	busy      *recordingBusy
	confirmer *stubConfirmer
	scheduler *manualScheduler
	reloader  *countingReloader
	editor    *memoryEditor
	attempts  *recordingAttempts
}

func newFixture() *fixture {
	return &fixture{
		runner:    &mockRunner{},
		panel:     &recordingPanel{},
		notifier:  &recordingNotifier{},
		busy:      &recordingBusy{},
		confirmer: &stubConfirmer{answer: true},
		scheduler: &manualScheduler{},
		reloader:  &countingReloader{},
		editor:    &memoryEditor{},
		attempts:  &recordingAttempts{},
	}
}

func (f *fixture) config() Config {
	return Config{
		Runner:    f.runner,
		Panel:     f.panel,
		Notifier:  f.notifier,
		Busy:      f.busy,
		Confirmer: f.confirmer,
		Scheduler: f.scheduler,
		Reloader:  f.reloader,
		Editor:    f.editor,
		Attempts:  f.attempts,
	}
}
