package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/employee-records-api/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
)

func TestBuildListQuery(t *testing.T) {
	id, salary := 4, 650000
	base := "SELECT id, name, department, salary FROM employees"

	tests := []struct {
		name      string
		filter    models.EmployeeFilter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			wantQuery: base + " ORDER BY id",
		},
		{
			name:      "blank strings ignored",
			filter:    models.EmployeeFilter{Name: "  ", Department: ""},
			wantQuery: base + " ORDER BY id",
		},
		{
			name:      "all filters",
			filter:    models.EmployeeFilter{ID: &id, Name: "ada", Department: "Eng", Salary: &salary},
			wantQuery: base + " WHERE id = $1 AND name ILIKE $2 AND department ILIKE $3 AND salary = $4 ORDER BY id",
			wantArgs:  []any{4, "%ada%", "%Eng%", 650000},
		},
		{
			name:      "department only",
			filter:    models.EmployeeFilter{Department: "HR"},
			wantQuery: base + " WHERE department ILIKE $1 ORDER BY id",
			wantArgs:  []any{"%HR%"},
		},
		{
			name:      "wildcards escaped",
			filter:    models.EmployeeFilter{Name: `50%_off\`},
			wantQuery: base + " WHERE name ILIKE $1 ORDER BY id",
			wantArgs:  []any{`%50\%\_off\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"check violation", &pq.Error{Code: "23514"}, ErrConstraintViolation},
		{"not null violation", &pq.Error{Code: "23502"}, ErrConstraintViolation},
		{"integer out of range", &pq.Error{Code: "22003"}, ErrConstraintViolation},
		{"value too long", &pq.Error{Code: "22001"}, ErrConstraintViolation},
		{"unique violation", &pq.Error{Code: "23505"}, ErrDuplicateKey},
		{"wrapped check violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23514"}), ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("translateError() = %v, want %v", got, tt.want)
			}
		})
	}

	plain := errors.New("connection reset")
	if got := translateError(plain); got != plain {
		t.Errorf("unrelated errors should pass through, got %v", got)
	}
	if translateError(nil) != nil {
		t.Error("nil should stay nil")
	}
}
