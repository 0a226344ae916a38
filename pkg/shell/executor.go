package shell

import (
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type Command struct {
	Cmd    *exec.Cmd
	StdErr io.ReadCloser
}

func NewCommand(command string, args ...string) (*Command, error) {
	cmd := exec.Command(command, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stderr pipe")
	}
	return &Command{
		Cmd:    cmd,
		StdErr: stderr,
	}, nil
}

// Run starts the command and waits for it, returning its stderr in the
// error when it fails.
func (c *Command) Run() error {
	if err := c.Cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start %s", c.Cmd.Path)
	}
	stderr, readErr := io.ReadAll(c.StdErr)
	if err := c.Cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return errors.Wrap(err, msg)
		}
		return err
	}
	if readErr != nil {
		return errors.Wrap(readErr, "failed to read stderr")
	}
	return nil
}

// OpenerCommand returns the platform command that opens url in the default
// browser.
func OpenerCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// OpenURL opens url in the default browser.
func OpenURL(url string) error {
	name, args := OpenerCommand(runtime.GOOS, url)
	cmd, err := NewCommand(name, args...)
	if err != nil {
		return err
	}
	return cmd.Run()
}
