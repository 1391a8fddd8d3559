package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bowlingdle.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
}

func TestOpenMemorySharesOneDatabase(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	for i := 0; i < 5; i++ {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
}
