package database

import (
	"context"
	"errors"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("expected 1, got %d (%v)", one, err)
	}
}

func TestOpenRemoteRequiresURL(t *testing.T) {
	_, err := OpenRemote(context.Background(), "", "token")
	if !errors.Is(err, ErrNoRemoteURL) {
		t.Fatalf("expected ErrNoRemoteURL, got %v", err)
	}
}
