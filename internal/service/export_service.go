package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/models"
	"github.com/rs/zerolog"
)

// Export-only formats
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// IsExportFormat reports whether format can be passed to Export
func IsExportFormat(format string) bool {
	switch format {
	case FormatCSV, FormatXLSX, FormatJSON, FormatNDJSON:
		return true
	}
	return false
}

// IsTemplateFormat reports whether format can be passed to Template
func IsTemplateFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	employees EmployeeService
	log       zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(employees EmployeeService, log zerolog.Logger) *exportService {
	return &exportService{
		employees: employees,
		log:       log.With().Str("service", "export").Logger(),
	}
}

// NewExportService creates an ExportService reading from employees
func NewExportService(employees EmployeeService, log zerolog.Logger) ExportService {
	return newExportService(employees, log)
}

// Export loads the filtered set once and writes it in format. Nothing is
// written to w when loading fails.
func (s *exportService) Export(ctx context.Context, w http.ResponseWriter, format string, filter models.EmployeeFilter) error {
	if !IsExportFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return err
	}

	s.log.Info().Str("format", format).Int("count", len(employees)).Msg("Starting employees export")

	setAttachment(w, format, "employees")
	switch format {
	case FormatCSV:
		err = bulk.Export(w, employees)
	case FormatXLSX:
		err = bulk.ExportXLSX(w, employees)
	case FormatJSON:
		err = json.NewEncoder(w).Encode(employees)
	case FormatNDJSON:
		err = writeNDJSON(w, employees)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return nil
}

func writeNDJSON(w http.ResponseWriter, employees []models.Employee) error {
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	for i := range employees {
		if err := enc.Encode(&employees[i]); err != nil {
			return err
		}
		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

// Template writes the blank import template
func (s *exportService) Template(w http.ResponseWriter, format string) error {
	if !IsTemplateFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	setAttachment(w, format, "employee_template")
	if format == FormatXLSX {
		return bulk.WriteTemplateXLSX(w)
	}
	return bulk.WriteTemplate(w)
}

// GetCount returns the number of stored employees
func (s *exportService) GetCount(ctx context.Context) (int, error) {
	return s.employees.Count(ctx)
}

func setAttachment(w http.ResponseWriter, format, basename string) {
	contentType := map[string]string{
		FormatCSV:    "text/csv",
		FormatXLSX:   bulk.XLSXContentType,
		FormatJSON:   "application/json",
		FormatNDJSON: "application/x-ndjson",
	}[format]
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+basename+"."+format)
}
