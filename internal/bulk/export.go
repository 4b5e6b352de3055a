package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/employee-records-api/internal/models"
)

// Header is the first line of every export and template
var Header = []string{"ID", "Name", "Department", "Salary"}

// TemplateRows are the illustrative rows of the import template. The
// empty id makes both rows creates when the template is imported as is.
var TemplateRows = [][]string{
	{"", "John Doe", "IT", "600000"},
	{"", "Jane Smith", "HR", "550000"},
}

// ExportRecord returns the export columns of one employee
func ExportRecord(e models.Employee) []string {
	return []string{
		strconv.Itoa(e.ID),
		e.Name,
		e.Department,
		strconv.Itoa(e.Salary),
	}
}

// Export writes the header and one line per employee in slice order.
// Fields containing commas, quotes or newlines are quoted.
func Export(w io.Writer, employees []models.Employee) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, e := range employees {
		if err := writer.Write(ExportRecord(e)); err != nil {
			return fmt.Errorf("failed to write employee %d: %w", e.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTemplate writes the header and the example rows
func WriteTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	if err := writer.WriteAll(TemplateRows); err != nil {
		return err
	}
	return writer.Error()
}
