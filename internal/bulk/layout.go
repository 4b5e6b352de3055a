// Package bulk converts tabular employee files into create/update calls
// and employee record sets into downloadable tables.
package bulk

import "strings"

// Layout maps column positions to employee fields
type Layout int

const (
	// LayoutInferred means no header was found; each row's layout is
	// chosen from its column count.
	LayoutInferred Layout = iota
	// LayoutWithID is [id, name, department, salary, ...]
	LayoutWithID
	// LayoutWithoutID is [name, department, salary, ...]
	LayoutWithoutID
)

// minFields is the smallest row that carries name, department and salary
const minFields = 3

func (l Layout) String() string {
	switch l {
	case LayoutWithID:
		return "id,name,department,salary"
	case LayoutWithoutID:
		return "name,department,salary"
	default:
		return "inferred"
	}
}

// HasHeader reports whether the first line was a header and must be skipped
func (l Layout) HasHeader() bool {
	return l != LayoutInferred
}

// DetectLayout inspects the first line of a file. A first field of "id"
// or "name" (case-insensitive) marks a header row.
func DetectLayout(first []string) Layout {
	if len(first) == 0 {
		return LayoutInferred
	}
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(first[0], "\ufeff"))) {
	case "id":
		return LayoutWithID
	case "name":
		return LayoutWithoutID
	default:
		return LayoutInferred
	}
}

// resolve picks the layout for one row. A header layout applies when the
// row is wide enough for it; otherwise the column count decides.
func (l Layout) resolve(fieldCount int) Layout {
	switch {
	case l == LayoutWithID && fieldCount >= 4:
		return LayoutWithID
	case l == LayoutWithoutID && fieldCount >= minFields:
		return LayoutWithoutID
	case fieldCount >= 4:
		return LayoutWithID
	default:
		return LayoutWithoutID
	}
}
