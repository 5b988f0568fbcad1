// Package db opens and migrates the SQLite run-history store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// Every pool runs with WAL journaling, busy_timeout=5000ms,
// synchronous=NORMAL, and foreign keys on. Verdict rows cascade from their
// run, so foreign_keys must stay enabled.
const hardenedParams = "_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on"

// OpenWriter opens the single-connection write pool. SQLite allows one
// writer at a time; a one-connection pool plus _txlock=immediate turns
// writer contention into queueing instead of SQLITE_BUSY errors.
func OpenWriter(path string) (*sql.DB, error) {
	db, err := open(path + "?" + hardenedParams + "&_txlock=" + url.QueryEscape("immediate"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite writer: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// OpenReader opens the read pool. maxOpen <= 0 defaults to 4.
func OpenReader(path string, maxOpen int) (*sql.DB, error) {
	if maxOpen <= 0 {
		maxOpen = 4
	}
	db, err := open(path + "?" + hardenedParams)
	if err != nil {
		return nil, fmt.Errorf("open sqlite reader: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	return db, nil
}

// OpenSQLitePair opens the write and read pools for one store file.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenWriter(path)
	if err != nil {
		return nil, nil, err
	}
	readDB, err = OpenReader(path, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
