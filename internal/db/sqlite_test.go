package db

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWriter(t *testing.T) {
	db, err := OpenWriter(filepath.Join(t.TempDir(), "runs.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpenReader_PoolSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.sqlite")

	db, err := OpenReader(path, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, db.Stats().MaxOpenConnections)
	db.Close()

	db, err = OpenReader(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)
	db.Close()
}

func TestOpenWriter_BadPath(t *testing.T) {
	_, err := OpenWriter("/nonexistent/dir/runs.sqlite")
	require.Error(t, err)
}

func TestOpenSQLitePair(t *testing.T) {
	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "runs.sqlite"), 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		readDB.Close()
		writeDB.Close()
	})

	assert.Equal(t, 1, writeDB.Stats().MaxOpenConnections)
	assert.Equal(t, 4, readDB.Stats().MaxOpenConnections)

	_, err = writeDB.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY, val TEXT)")
	require.NoError(t, err)
	_, err = writeDB.Exec("INSERT INTO probe (val) VALUES ('ok')")
	require.NoError(t, err)

	var val string
	require.NoError(t, readDB.QueryRow("SELECT val FROM probe WHERE id = 1").Scan(&val))
	assert.Equal(t, "ok", val)
}

// Concurrent writers queue on the single write connection and readers go
// through WAL, so none of them should surface SQLITE_BUSY.
func TestOpenSQLitePair_ConcurrentAccess(t *testing.T) {
	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "runs.sqlite"), 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		readDB.Close()
		writeDB.Close()
	})

	_, err = writeDB.Exec("CREATE TABLE counter (id INTEGER PRIMARY KEY, n INTEGER)")
	require.NoError(t, err)
	_, err = writeDB.Exec("INSERT INTO counter (id, n) VALUES (1, 0)")
	require.NoError(t, err)

	var wg sync.WaitGroup
	writeErrs := make([]error, 20)
	readErrs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			_, writeErrs[idx] = writeDB.Exec("UPDATE counter SET n = n + 1 WHERE id = 1")
		}(i)
		go func(idx int) {
			defer wg.Done()
			var n int
			readErrs[idx] = readDB.QueryRow("SELECT n FROM counter WHERE id = 1").Scan(&n)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		assert.NoError(t, writeErrs[i], "writer %d", i)
		assert.NoError(t, readErrs[i], "reader %d", i)
	}

	var n int
	require.NoError(t, readDB.QueryRow("SELECT n FROM counter WHERE id = 1").Scan(&n))
	assert.Equal(t, 20, n)
}
