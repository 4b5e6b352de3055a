package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/employee-records-api/internal/models"
)

// ErrInvalidEmployee is matched by every Errors value
var ErrInvalidEmployee = errors.New("invalid employee")

// Column limits of the employees table
const (
	MaxTextLength = 200
	MaxSalary     = math.MaxInt32
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a non-empty list of field errors returned as one error
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalidEmployee
}

// Fields lists the offending field names in order
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, ve := range e {
		fields[i] = ve.Field
	}
	return fields
}

// ValidateEmployee checks the business rules for a stored employee.
// requireID is set for updates, where the row must name an existing id.
func ValidateEmployee(e models.Employee, requireID bool) []ValidationError {
	var errs []ValidationError

	if requireID && e.ID <= 0 {
		errs = append(errs, ValidationError{Field: "id", Message: "id must be a positive integer", Value: e.ID})
	}

	errs = append(errs, validateText("name", e.Name)...)
	errs = append(errs, validateText("department", e.Department)...)

	switch {
	case e.Salary <= 0:
		errs = append(errs, ValidationError{Field: "salary", Message: "salary must be greater than zero", Value: e.Salary})
	case e.Salary > MaxSalary:
		errs = append(errs, ValidationError{Field: "salary", Message: fmt.Sprintf("salary must not exceed %d", MaxSalary), Value: e.Salary})
	}

	return errs
}

func validateText(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{Field: field, Message: field + " is required"}}
	}
	if utf8.RuneCountInString(value) > MaxTextLength {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, MaxTextLength)}}
	}
	return nil
}

// ValidateID checks an id used for lookup or deletion
func ValidateID(id int) []ValidationError {
	if id <= 0 {
		return []ValidationError{{Field: "id", Message: "id must be a positive integer", Value: id}}
	}
	return nil
}

// AsError returns nil for an empty list and an Errors value otherwise
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}
