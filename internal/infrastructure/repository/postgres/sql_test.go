package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected bare sql.ErrNoRows to be not-found")
	}
	if !isNotFound(fmt.Errorf("get squad: %w", sql.ErrNoRows)) {
		t.Fatal("expected wrapped sql.ErrNoRows to be not-found")
	}
	if isNotFound(fmt.Errorf("connection reset")) {
		t.Fatal("expected unrelated error to not be not-found")
	}
	if isNotFound(nil) {
		t.Fatal("expected nil to not be not-found")
	}
}
