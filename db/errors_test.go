package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get menu: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "categories_category_name_key"}, ErrUniqueViolation},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "order_item_menu_id_fkey"}, ErrForeignKeyViolation},
	}
	for _, tt := range tests {
		got := Classify(tt.in)
		if tt.want == nil {
			if got != nil {
				t.Errorf("%s: Classify() = %v, want nil", tt.name, got)
			}
			continue
		}
		if !errors.Is(got, tt.want) {
			t.Errorf("%s: Classify() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyPassesThroughUnknown(t *testing.T) {
	in := errors.New("connection refused")
	if got := Classify(in); got != in {
		t.Errorf("Classify() = %v, want the original error", got)
	}
	other := &pgconn.PgError{Code: "42P01"}
	if got := Classify(other); !errors.Is(got, other) {
		t.Errorf("Classify() rewrote an unclassified pg error: %v", got)
	}
}
