package models

// Employee represents an employee record
type Employee struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Department string `json:"department" db:"department"`
	Salary     int    `json:"salary" db:"salary"`
}

// EmployeeFilter narrows an employee listing. Zero values mean "no filter".
type EmployeeFilter struct {
	ID         *int   `form:"id" json:"id,omitempty"`
	Name       string `form:"name" json:"name,omitempty"`
	Department string `form:"department" json:"department,omitempty"`
	Salary     *int   `form:"salary" json:"salary,omitempty"`
}

// IsEmpty reports whether no filter field is set
func (f EmployeeFilter) IsEmpty() bool {
	return f.ID == nil && f.Name == "" && f.Department == "" && f.Salary == nil
}

// AddEmployeeRequest is the body of POST /api/employee/AddEmployee
type AddEmployeeRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Salary     int    `json:"salary"`
}

// UpdateEmployeeRequest is the body of PUT /api/employee/UpdateEmployee
type UpdateEmployeeRequest struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Salary     int    `json:"salary"`
}

// DeleteEmployeeRequest is the body of DELETE /api/employee/DeleteEmployee
type DeleteEmployeeRequest struct {
	ID int `json:"id"`
}

// ImportSummary is the synchronous import response
type ImportSummary struct {
	Processed  int    `json:"processed"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	Message    string `json:"message"`
}
