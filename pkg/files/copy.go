package files

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

const BackupSuffix = ".bak"

// Backup copies src next to itself with BackupSuffix appended, keeping its
// permissions, and returns the backup path. A missing src is not an error
// and yields an empty path.
func Backup(src string) (string, error) {
	source, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to open source file")
	}
	defer source.Close()

	stat, err := source.Stat()
	if err != nil {
		return "", errors.Wrap(err, "failed to stat source file")
	}

	dst := src + BackupSuffix
	dest, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode().Perm())
	if err != nil {
		return "", errors.Wrap(err, "failed to create backup file")
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return "", errors.Wrap(err, "failed to copy data")
	}
	if err := dest.Sync(); err != nil {
		return "", errors.Wrap(err, "failed to sync backup file")
	}
	return dst, nil
}
