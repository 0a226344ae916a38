package dto

import "fmt"

// State selects the styling of the output panel.
type State int8

const (
	StatePending State = iota
	StateSuccess
	StateError
	StateWarning
	// StateAborted means the user declined a confirmation and nothing happened.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateWarning:
		return "warning"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int8(s))
	}
}

// Level is the severity of a notification banner.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type DisplayResult struct {
	State State
	// Text is the panel content. Empty when the panel is left untouched.
	Text         string
	Notification *Notification
	// Reload is set when a deferred page reload was scheduled.
	Reload bool
}

// UpdatesPanel reports whether the result carries panel content.
func (r DisplayResult) UpdatesPanel() bool {
	return r.Text != ""
}
