package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(in string, color bool) (*Terminal, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	term := NewTerminal(TerminalConfig{Out: out, ErrOut: errOut, In: strings.NewReader(in), Color: &color})
	return term, out, errOut
}

func TestTerminal_Show(t *testing.T) {
	term, out, errOut := newTestTerminal("", false)

	term.Show(dto.StatePending, "Executing code...")
	term.Show(dto.StateSuccess, "hello")

	assert.Equal(t, "Executing code...\n", errOut.String())
	assert.Equal(t, "── success ──\nhello\n", out.String())
}

func TestTerminal_ShowKeepsTrailingNewline(t *testing.T) {
	term, out, _ := newTestTerminal("", false)
	term.Show(dto.StateError, "Error:\nboom\n")
	assert.Equal(t, "── error ──\nError:\nboom\n", out.String())
}

func TestTerminal_Colors(t *testing.T) {
	term, out, errOut := newTestTerminal("", true)

	term.Show(dto.StateError, "x")
	term.Notify(dto.Notification{Level: dto.LevelWarning, Message: "careful"})

	assert.Contains(t, out.String(), ansiRed+"── error ──"+ansiReset)
	assert.Equal(t, ansiYellow+"[warning]"+ansiReset+" careful\n", errOut.String())
}

func TestTerminal_Notify(t *testing.T) {
	term, _, errOut := newTestTerminal("", false)
	term.Notify(dto.Notification{Level: dto.LevelDanger, Message: "Submission failed"})
	assert.Equal(t, "[danger] Submission failed\n", errOut.String())
}

func TestTerminal_SetBusy(t *testing.T) {
	term, _, errOut := newTestTerminal("", false)

	term.SetBusy(true)
	assert.True(t, term.Busy())
	term.SetBusy(true)
	term.SetBusy(false)
	assert.False(t, term.Busy())

	assert.Equal(t, 1, strings.Count(errOut.String(), "Running..."))
}

func TestTerminal_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: " yes ", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			term, _, errOut := newTestTerminal(tt.input, false)
			got, err := term.Confirm(context.Background(), "Sure?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Sure? [y/N] ", errOut.String())
		})
	}
}

func TestTerminal_ConfirmAssumeYes(t *testing.T) {
	errOut := &bytes.Buffer{}
	term := NewTerminal(TerminalConfig{Out: io.Discard, ErrOut: errOut, In: strings.NewReader("n\n"), AssumeYes: true})

	got, err := term.Confirm(context.Background(), "Sure?")

	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, errOut.String())
}

func TestTerminal_ConfirmCanceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := NewTerminal(TerminalConfig{Out: io.Discard, ErrOut: io.Discard, In: r})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := term.Confirm(ctx, "Sure?")

	assert.False(t, got)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminal_ConfirmDoesNotBlockOutput(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	term := NewTerminal(TerminalConfig{Out: out, ErrOut: errOut, In: r})

	answered := make(chan bool, 1)
	go func() {
		ok, _ := term.Confirm(context.Background(), "Sure?")
		answered <- ok
	}()

	printed := make(chan struct{})
	go func() {
		term.Show(dto.StateSuccess, "42")
		term.Notify(dto.Notification{Level: dto.LevelInfo, Message: "done"})
		close(printed)
	}()
	select {
	case <-printed:
	case <-time.After(time.Second):
		t.Fatal("output blocked by a pending confirmation")
	}

	go w.Write([]byte("y\n"))
	select {
	case ok := <-answered:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("confirmation not answered")
	}
	assert.Contains(t, out.String(), "42")
	assert.Contains(t, errOut.String(), "done")
}

func TestTerminal_ConfirmAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := NewTerminal(TerminalConfig{Out: io.Discard, ErrOut: io.Discard, In: r})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := term.Confirm(ctx, "First?")
	require.ErrorIs(t, err, context.Canceled)

	go w.Write([]byte("yes\n"))
	got, err := term.Confirm(context.Background(), "Second?")

	require.NoError(t, err)
	assert.True(t, got)
}

func TestTerminal_ConfirmAfterEOF(t *testing.T) {
	term, _, _ := newTestTerminal("", false)

	for i := 0; i < 2; i++ {
		got, err := term.Confirm(context.Background(), "Sure?")
		require.NoError(t, err)
		assert.False(t, got)
	}
}
