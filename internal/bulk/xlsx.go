package bulk

import (
	"context"
	"fmt"
	"io"

	"github.com/employee-records-api/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	// XLSXContentType is the MIME type of workbook downloads
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	xlsxSheet = "Employees"
)

// ImportXLSX runs the first sheet of a workbook through the same pipeline
// as ImportRows. Cells are read as displayed text.
func ImportXLSX(ctx context.Context, r io.Reader, d Dispatcher, opts Options) (Outcome, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if f.SheetCount < 1 {
		return Outcome{}, nil
	}
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read sheet: %w", err)
	}

	return ImportRows(ctx, newSheetReader(rows), d, opts)
}

// sheetReader adapts worksheet rows to RowReader. Empty rows are skipped,
// matching how LineReader treats blank lines.
//
// GetRows drops trailing empty cells, so when the first row is a header
// every later row is padded to the header's width. An empty salary cell
// then reads as 0, as ",Ann,HR," does in CSV.
type sheetReader struct {
	rows  [][]string
	next  int
	line  int
	width int
	seen  bool
}

func newSheetReader(rows [][]string) *sheetReader {
	return &sheetReader{rows: rows}
}

func (s *sheetReader) Read() ([]string, error) {
	for s.next < len(s.rows) {
		row := s.rows[s.next]
		s.next++
		if isEmptyRow(row) {
			continue
		}
		s.line = s.next
		if !s.seen {
			s.seen = true
			if DetectLayout(row).HasHeader() {
				s.width = len(row)
			}
		}
		if len(row) < s.width {
			padded := make([]string, s.width)
			copy(padded, row)
			row = padded
		}
		return row, nil
	}
	return nil, io.EOF
}

// FieldPos reports the worksheet row number of the last row read
func (s *sheetReader) FieldPos(field int) (int, int) {
	return s.line, field + 1
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// ExportXLSX writes the employees as a single-sheet workbook
func ExportXLSX(w io.Writer, employees []models.Employee) error {
	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []any{e.ID, e.Name, e.Department, e.Salary})
	}
	return writeWorkbook(w, rows)
}

// WriteTemplateXLSX writes the template as a workbook
func WriteTemplateXLSX(w io.Writer) error {
	rows := make([][]any, 0, len(TemplateRows))
	for _, tr := range TemplateRows {
		row := make([]any, len(tr))
		for i, v := range tr {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return writeWorkbook(w, rows)
}

func writeWorkbook(w io.Writer, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := setHeaderStyle(f); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "A", "D", 18); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setHeaderStyle(f *excelize.File) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"366092"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	endCell, _ := excelize.CoordinatesToCellName(len(Header), 1)
	return f.SetCellStyle(xlsxSheet, "A1", endCell, styleID)
}
