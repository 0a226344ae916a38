// Package ui renders playground outcomes on a terminal.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/pkg/errors"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Terminal implements the panel, notifier, busy indicator and confirmer
// of a playground on top of plain streams. Writes are serialised.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	color  bool
	yes    bool
	busy   bool

	// askMu keeps one question on screen at a time
	askMu      sync.Mutex
	in         *bufio.Reader
	readerOnce sync.Once
	lines      chan answer
}

type answer struct {
	line string
	err  error
}

type TerminalConfig struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
	// Color forces ANSI colours on or off. Nil means on when Out is a terminal.
	Color *bool
	// AssumeYes answers every confirmation with yes without reading In.
	AssumeYes bool
}

func NewTerminal(cfg TerminalConfig) *Terminal {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	t := &Terminal{
		out:    cfg.Out,
		errOut: cfg.ErrOut,
		in:     bufio.NewReader(cfg.In),
		lines:  make(chan answer),
		yes:    cfg.AssumeYes,
	}
	if cfg.Color != nil {
		t.color = *cfg.Color
	} else if f, ok := cfg.Out.(*os.File); ok {
		t.color = IsTerminal(f.Fd())
	}
	return t
}

func (t *Terminal) Show(state dto.State, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state == dto.StatePending {
		fmt.Fprintln(t.errOut, t.paint(stateColor(state), text))
		return
	}
	fmt.Fprintln(t.out, t.paint(stateColor(state), "── "+state.String()+" ──"))
	fmt.Fprint(t.out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(t.out)
	}
}

func (t *Terminal) Notify(n dto.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.errOut, "%s %s\n", t.paint(levelColor(n.Level), "["+string(n.Level)+"]"), n.Message)
}

func (t *Terminal) SetBusy(busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if busy && !t.busy {
		fmt.Fprintln(t.errOut, t.paint(ansiCyan, "Running..."))
	}
	t.busy = busy
}

// Busy reports the current indicator state.
func (t *Terminal) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Confirm reads one line from the input. Only "y" and "yes" confirm. The
// output lock is released while waiting, so other results keep printing.
func (t *Terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	t.askMu.Lock()
	defer t.askMu.Unlock()

	t.mu.Lock()
	if t.yes {
		t.mu.Unlock()
		return true, nil
	}
	fmt.Fprintf(t.errOut, "%s [y/N] ", prompt)
	t.mu.Unlock()

	t.readerOnce.Do(func() { go t.readLines() })
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-t.lines:
		if !ok {
			return false, nil
		}
		if a.err != nil && a.err != io.EOF {
			return false, errors.Wrap(a.err, "failed to read answer")
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// readLines is the only reader of t.in. A line typed while nobody asks is
// kept for the next Confirm.
func (t *Terminal) readLines() {
	defer close(t.lines)
	for {
		line, err := t.in.ReadString('\n')
		t.lines <- answer{line: line, err: err}
		if err != nil {
			return
		}
	}
}

func (t *Terminal) paint(color, s string) string {
	if !t.color {
		return s
	}
	return color + s + ansiReset
}

func stateColor(s dto.State) string {
	switch s {
	case dto.StateSuccess:
		return ansiGreen
	case dto.StateError:
		return ansiRed
	case dto.StateWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

func levelColor(l dto.Level) string {
	switch l {
	case dto.LevelSuccess:
		return ansiGreen
	case dto.LevelDanger:
		return ansiRed
	case dto.LevelWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}
