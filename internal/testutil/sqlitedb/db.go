// Package sqlitedb provides an in-memory SQLite database seeded with the
// users and countries schema for tests.
package sqlitedb

import (
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE countries (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	country_id INTEGER REFERENCES countries(id)
);
`

// TestDB wraps an in-memory database that lives as long as the test.
type TestDB struct {
	DB *sql.DB
	t  *testing.T
}

// NewTestDB opens a fresh in-memory database with the schema applied.
// The pool is pinned to one connection because every SQLite memory
// connection is its own database.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	return open(t, ":memory:")
}

// NewFileTestDB creates the schema in a database file at path. Other pools
// opened on the same path see the seeded rows.
func NewFileTestDB(t *testing.T, path string) *TestDB {
	t.Helper()
	return open(t, path)
}

func open(t *testing.T, dsn string) *TestDB {
	t.Helper()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	testDB := &TestDB{DB: db, t: t}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})
	return testDB
}

// InsertCountry adds one country row.
func (d *TestDB) InsertCountry(id int64, name string) {
	d.t.Helper()
	d.exec("INSERT INTO countries (id, name) VALUES (?, ?)", id, name)
}

// InsertUser adds one user row. A zero countryID stores NULL.
func (d *TestDB) InsertUser(id int64, name string, countryID int64) {
	d.t.Helper()
	var country any
	if countryID != 0 {
		country = countryID
	}
	d.exec("INSERT INTO users (id, name, country_id) VALUES (?, ?, ?)", id, name, country)
}

// InsertUsers adds n users named user-<id> with ids starting at 1, all in countryID.
func (d *TestDB) InsertUsers(n int, countryID int64) {
	d.t.Helper()
	for i := 1; i <= n; i++ {
		d.InsertUser(int64(i), fmt.Sprintf("user-%d", i), countryID)
	}
}

func (d *TestDB) exec(query string, args ...any) {
	d.t.Helper()
	if _, err := d.DB.Exec(query, args...); err != nil {
		d.t.Fatalf("Failed to execute %q: %v", query, err)
	}
}
