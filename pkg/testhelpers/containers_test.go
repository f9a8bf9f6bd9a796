//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_Connection(t *testing.T) {
	testDB := GetTestDB(t)

	var one int
	if err := testDB.Pool.QueryRow(context.Background(), "SELECT 1").Scan(&one); err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if one != 1 {
		t.Errorf("expected 1, got %d", one)
	}
}

func TestTestDB_MigrationsApplied(t *testing.T) {
	testDB := GetTestDB(t)

	var exists bool
	err := testDB.Pool.QueryRow(context.Background(),
		"SELECT to_regclass('public.profile_runs') IS NOT NULL").Scan(&exists)
	if err != nil {
		t.Fatalf("failed to check table: %v", err)
	}
	if !exists {
		t.Error("expected profile_runs table after migrations")
	}
}
