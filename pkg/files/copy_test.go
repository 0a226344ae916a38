package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "solution.py")
	require.NoError(t, os.WriteFile(src, []byte("print(1)\n"), 0o640))

	dst, err := Backup(src)

	require.NoError(t, err)
	assert.Equal(t, src+BackupSuffix, dst)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(data))
	stat, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())
}

func TestBackup_MissingSource(t *testing.T) {
	dst, err := Backup(filepath.Join(t.TempDir(), "missing.py"))
	require.NoError(t, err)
	assert.Empty(t, dst)
}
