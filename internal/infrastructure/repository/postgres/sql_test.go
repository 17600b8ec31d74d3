package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("scan row: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("matches wrapped 23505", func(t *testing.T) {
		err := fmt.Errorf("insert member: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for wrapped unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(errors.New("duplicate key")) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestNullableRoundTrips(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		if got := nullableString(""); got.Valid {
			t.Fatalf("empty string should map to null")
		}
		if got := optionalString(nullableString("nick")); got != "nick" {
			t.Fatalf("unexpected string: %q", got)
		}
		if got := optionalString(sql.NullString{}); got != "" {
			t.Fatalf("null should map to empty string, got %q", got)
		}
	})

	t.Run("bool", func(t *testing.T) {
		if got := nullableBool(nil); got.Valid {
			t.Fatalf("nil should map to null")
		}
		v := false
		got := optionalBool(nullableBool(&v))
		if got == nil || *got != false {
			t.Fatalf("unexpected bool: %v", got)
		}
		if optionalBool(sql.NullBool{}) != nil {
			t.Fatalf("null should map to nil")
		}
	})

	t.Run("int64", func(t *testing.T) {
		v := int64(7)
		got := optionalInt64(nullableInt64(&v))
		if got == nil || *got != 7 {
			t.Fatalf("unexpected int64: %v", got)
		}
		if optionalInt64(sql.NullInt64{}) != nil {
			t.Fatalf("null should map to nil")
		}
	})

	t.Run("time", func(t *testing.T) {
		now := time.Now().UTC()
		got := optionalTime(nullableTime(&now))
		if got == nil || !got.Equal(now) {
			t.Fatalf("unexpected time: %v", got)
		}
		if optionalTime(sql.NullTime{}) != nil {
			t.Fatalf("null should map to nil")
		}
	})
}
