package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewDB(t *testing.T) {
	// sql.Open validates the DSN without connecting.
	db, err := NewDB("user:pass@tcp(127.0.0.1:3306)/recipebox?parseTime=true")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	defer db.Close()

	if db == nil {
		t.Fatal("NewDB() returned nil database")
	}
}

func TestNewDBInvalidDSN(t *testing.T) {
	if _, err := NewDB("not a valid dsn"); err == nil {
		t.Error("NewDB() expected error for invalid DSN")
	}
}

func TestWaitForDBContextCancelled(t *testing.T) {
	db, err := NewDB("user:pass@tcp(127.0.0.1:1)/nowhere?timeout=100ms")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := WaitForDB(ctx, db); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDB() = %v, want context.DeadlineExceeded", err)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"duplicate entry", errors.New("Error 1062: Duplicate entry 'a@b.com' for key 'users.email'"), true},
		{"other error", errors.New("Error 1146: Table 'recipebox.users' doesn't exist"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}
