package files

import (
	"log/slog"
	"os"
	"sync"

	pkgfiles "github.com/cutekitek/challenge-console/pkg/files"
	"github.com/pkg/errors"
)

// FileEditor is a code buffer backed by a file. SetValue keeps a backup of
// the previous content next to the file.
type FileEditor struct {
	mu   sync.Mutex
	Path string
}

func NewFileEditor(path string) *FileEditor {
	return &FileEditor{Path: path}
}

func (e *FileEditor) Value() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read code file")
	}
	return string(data), nil
}

func (e *FileEditor) SetValue(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	backup, err := pkgfiles.Backup(e.Path)
	if err != nil {
		return err
	}
	if backup != "" {
		slog.Info("previous code saved", "path", backup)
	}

	perm := os.FileMode(0o644)
	if stat, err := os.Stat(e.Path); err == nil {
		perm = stat.Mode().Perm()
	}
	if err := os.WriteFile(e.Path, []byte(code), perm); err != nil {
		return errors.Wrap(err, "failed to write code file")
	}
	return nil
}

// ModTime reports when the file was last written. Used to watch for edits.
func (e *FileEditor) ModTime() (int64, error) {
	stat, err := os.Stat(e.Path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to stat code file")
	}
	return stat.ModTime().UnixNano(), nil
}
