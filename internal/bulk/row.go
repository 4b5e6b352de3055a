package bulk

import (
	"math"
	"strconv"
	"strings"

	"github.com/employee-records-api/internal/models"
)

// Row is one data line of an import file
type Row struct {
	Line       int
	ID         int // 0 means no id: the row is a create
	Name       string
	Department string
	Salary     int
}

// IsUpdate reports whether the row targets an existing employee
func (r Row) IsUpdate() bool {
	return r.ID > 0
}

// Employee returns the record payload carried by the row
func (r Row) Employee() models.Employee {
	return models.Employee{
		ID:         r.ID,
		Name:       r.Name,
		Department: r.Department,
		Salary:     r.Salary,
	}
}

// ParseRow classifies a split line. It returns false for rows with fewer
// than three fields, which are skipped without being counted.
func ParseRow(fields []string, layout Layout) (Row, bool) {
	if len(fields) < minFields {
		return Row{}, false
	}

	var row Row
	switch layout.resolve(len(fields)) {
	case LayoutWithID:
		row.ID = parseID(fields[0])
		row.Name = strings.TrimSpace(fields[1])
		row.Department = strings.TrimSpace(fields[2])
		row.Salary = parseSalary(fields[3])
	default:
		row.Name = strings.TrimSpace(fields[0])
		row.Department = strings.TrimSpace(fields[1])
		row.Salary = parseSalary(fields[2])
	}
	return row, true
}

// parseID returns 0 for anything that is not a positive integer
func parseID(s string) int {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// parseSalary never fails: input that is not a whole number or decimal,
// including a numeric prefix like "700000abc", becomes 0. Decimals are truncated.
func parseSalary(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return int(f)
}
