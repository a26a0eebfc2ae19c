package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other pg error", &pgconn.PgError{Code: "23503"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullable(t *testing.T) {
	if nullable("") != nil {
		t.Error("empty string should map to nil")
	}
	if v := nullable("x"); v == nil || *v != "x" {
		t.Errorf("nullable(\"x\") = %v, want pointer to \"x\"", v)
	}
}

func TestOrEmpty(t *testing.T) {
	if got := orEmpty(nil); got == nil || len(got) != 0 {
		t.Errorf("orEmpty(nil) = %v, want empty slice", got)
	}
	in := []string{"a", "b"}
	if got := orEmpty(in); len(got) != 2 {
		t.Errorf("orEmpty(%v) = %v", in, got)
	}
}

func TestNotEnoughAgentsError(t *testing.T) {
	err := error(NotEnoughAgentsError{Available: 1})
	var notEnough NotEnoughAgentsError
	if !errors.As(err, &notEnough) {
		t.Fatal("errors.As failed to match NotEnoughAgentsError")
	}
	if notEnough.Available != 1 {
		t.Errorf("Available = %d, want 1", notEnough.Available)
	}
}
