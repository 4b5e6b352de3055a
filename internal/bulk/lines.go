package bulk

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// maxLineSize bounds a single import line
const maxLineSize = 1 << 20

// LineReader yields one row per physical line of import text. A quote
// never spans lines: each line is parsed as a CSV record so quoted
// commas survive, and a line that is not valid CSV on its own is split
// on every comma instead. Blank lines are ignored.
type LineReader struct {
	sc   *bufio.Scanner
	line int
}

func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LineReader{sc: sc}
}

func (l *LineReader) Read() ([]string, error) {
	for l.sc.Scan() {
		l.line++
		text := l.sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		return splitLine(text), nil
	}
	if err := l.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// FieldPos reports the line number of the last row read
func (l *LineReader) FieldPos(field int) (int, int) {
	return l.line, field + 1
}

func splitLine(text string) []string {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	fields, err := cr.Read()
	if err != nil {
		return strings.Split(text, ",")
	}
	return fields
}
