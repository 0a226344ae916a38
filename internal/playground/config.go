package playground

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cutekitek/challenge-console/internal/runner"
)

// DefaultReloadDelay is how long a correct answer stays on screen before
// the page is reloaded.
const DefaultReloadDelay = 2 * time.Second

var ErrConfiguration = errors.New("configuration error")

type Config struct {
	// Runner sends code to the backend. Required.
	Runner runner.Runner

	// Panel shows execution and submission output. Required.
	Panel Panel

	// Notifier shows banners. Required.
	Notifier Notifier

	// Confirmer gates submissions and resets. Required.
	Confirmer Confirmer

	// Busy is toggled around requests. Optional.
	Busy BusyIndicator

	// Editor backs ExecuteEditor, SubmitEditor and Reset. Optional.
	Editor Editor

	// Starter provides the code Reset restores. Optional.
	Starter StarterSource

	// Reloader is triggered once after a correct submission. Optional;
	// without it no reload is scheduled.
	Reloader Reloader

	// Scheduler defaults to time.AfterFunc.
	Scheduler Scheduler

	// ReloadDelay defaults to DefaultReloadDelay.
	ReloadDelay time.Duration

	// Attempts receives submission outcomes. Optional.
	Attempts AttemptRecorder

	// Serialize queues a call while another one is in flight instead of
	// letting them race.
	Serialize bool
}

// Validate reports missing required fields as ErrConfiguration.
func (c *Config) Validate() error {
	var missing []string
	if c.Runner == nil {
		missing = append(missing, "Runner")
	}
	if c.Panel == nil {
		missing = append(missing, "Panel")
	}
	if c.Notifier == nil {
		missing = append(missing, "Notifier")
	}
	if c.Confirmer == nil {
		missing = append(missing, "Confirmer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Scheduler == nil {
		c.Scheduler = timerScheduler{}
	}
	if c.ReloadDelay == 0 {
		c.ReloadDelay = DefaultReloadDelay
	}
}
