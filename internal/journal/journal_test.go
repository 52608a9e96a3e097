package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestJournal opens an in-memory journal closed at test end.
func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	mode, err := j.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestOpen_Pragmas(t *testing.T) {
	j := openTestJournal(t)

	fk, err := j.pragma("foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, "1", fk)

	timeout, err := j.pragma("busy_timeout")
	require.NoError(t, err)
	assert.Equal(t, "5000", timeout)

	version, err := j.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_MigrationCreatesIndex(t *testing.T) {
	j := openTestJournal(t)
	var n int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_work_orders_center'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, j.Close())
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestClose_Twice(t *testing.T) {
	j, err := Open(MemoryPath)
	require.NoError(t, err)
	assert.NoError(t, j.Close())
	assert.NoError(t, j.Close())
}
