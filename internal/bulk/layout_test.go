package bulk

import (
	"strings"
	"testing"
)

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name  string
		first []string
		want  Layout
	}{
		{"id header", []string{"id", "name", "department", "salary"}, LayoutWithID},
		{"id header upper case", []string{"ID", "Name", "Department", "Salary"}, LayoutWithID},
		{"id header padded", []string{"  Id ", "x"}, LayoutWithID},
		{"id header with BOM", []string{"\ufeffID", "Name"}, LayoutWithID},
		{"name header", []string{"name", "department", "salary"}, LayoutWithoutID},
		{"name header mixed case", []string{"NaMe", "Dept"}, LayoutWithoutID},
		{"data row with id", []string{"1", "John Doe", "IT", "650000"}, LayoutInferred},
		{"data row without id", []string{"Ada", "Engineering", "700000"}, LayoutInferred},
		{"empty", nil, LayoutInferred},
		{"identifier is not id", []string{"identifier", "name"}, LayoutInferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLayout(tt.first); got != tt.want {
				t.Errorf("DetectLayout(%v) = %v, want %v", tt.first, got, tt.want)
			}
		})
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		layout Layout
		want   Row
		wantOK bool
	}{
		{"two fields skipped", "Bob,Engineering", LayoutInferred, Row{}, false},
		{"one field skipped", "Bob", LayoutWithID, Row{}, false},
		{"three fields", "Ada, Engineering ,700000", LayoutInferred, Row{Name: "Ada", Department: "Engineering", Salary: 700000}, true},
		{"four fields with id", "1,John Doe,IT,650000", LayoutInferred, Row{ID: 1, Name: "John Doe", Department: "IT", Salary: 650000}, true},
		{"four fields empty id", ",John Doe,IT,600000", LayoutInferred, Row{Name: "John Doe", Department: "IT", Salary: 600000}, true},
		{"extra fields ignored", "2,A,B,3,x,y", LayoutInferred, Row{ID: 2, Name: "A", Department: "B", Salary: 3}, true},
		{"bad salary is zero", "A,B,lots", LayoutInferred, Row{Name: "A", Department: "B"}, true},
		{"empty salary is zero", "A,B,", LayoutInferred, Row{Name: "A", Department: "B"}, true},
		{"numeric prefix salary is zero", "A,B,700000abc", LayoutInferred, Row{Name: "A", Department: "B"}, true},
		{"decimal salary truncated", "A,B,99.9", LayoutInferred, Row{Name: "A", Department: "B", Salary: 99}, true},
		{"id header with short row", "A,B,5", LayoutWithID, Row{Name: "A", Department: "B", Salary: 5}, true},
		{"name header with wide row", "A,B,5,ignored", LayoutWithoutID, Row{Name: "A", Department: "B", Salary: 5}, true},
		{"zero id is create", "0,A,B,5", LayoutWithID, Row{Name: "A", Department: "B", Salary: 5}, true},
		{"padded id", " 42 ,A,B,5", LayoutWithID, Row{ID: 42, Name: "A", Department: "B", Salary: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRow(strings.Split(tt.line, ","), tt.layout)
			if ok != tt.wantOK {
				t.Fatalf("ParseRow(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseRow(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRow_IsUpdate(t *testing.T) {
	if (Row{}).IsUpdate() {
		t.Error("row without id should be a create")
	}
	if !(Row{ID: 3}).IsUpdate() {
		t.Error("row with id should be an update")
	}
}

func BenchmarkParseRow(b *testing.B) {
	fields := []string{"17", "Test User", "Engineering", "650000"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ParseRow(fields, LayoutInferred)
	}
}
