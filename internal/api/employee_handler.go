package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EmployeeHandler serves the /api/employee CRUD routes
type EmployeeHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(services *service.Services, log zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		services: services,
		log:      log.With().Str("handler", "employee").Logger(),
	}
}

// GetEmployeeList handles GET /api/employee/GetEmployeeList
func (h *EmployeeHandler) GetEmployeeList(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employees, err := h.services.Employee.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err, "failed to list employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployee handles GET /api/employee/GetEmployee?id=
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Query("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	employee, err := h.services.Employee.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to get employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// AddEmployee handles POST /api/employee/AddEmployee
func (h *EmployeeHandler) AddEmployee(c *gin.Context) {
	var req models.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.services.Employee.Create(c.Request.Context(), models.Employee{
		Name:       req.Name,
		Department: req.Department,
		Salary:     req.Salary,
	})
	if err != nil {
		respondError(c, h.log, err, "failed to add employee")
		return
	}

	c.Header("Location", fmt.Sprintf("/api/employee/GetEmployee?id=%d", id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateEmployee handles PUT /api/employee/UpdateEmployee
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.services.Employee.Update(c.Request.Context(), req.ID, models.Employee{
		Name:       req.Name,
		Department: req.Department,
		Salary:     req.Salary,
	})
	if err != nil {
		respondError(c, h.log, err, "failed to update employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully"})
}

// DeleteEmployee handles DELETE /api/employee/DeleteEmployee. The id is
// read from the JSON body, or from ?id= when there is no body.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	var req models.DeleteEmployeeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	} else if raw := c.Query("id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}
		req.ID = id
	}

	if err := h.services.Employee.Delete(c.Request.Context(), req.ID); err != nil {
		respondError(c, h.log, err, "failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// filterFromQuery reads the optional list filters. Blank values are ignored.
func filterFromQuery(c *gin.Context) (models.EmployeeFilter, error) {
	filter := models.EmployeeFilter{
		Name:       strings.TrimSpace(c.Query("name")),
		Department: strings.TrimSpace(c.Query("department")),
	}

	var err error
	if filter.ID, err = optionalInt(c.Query("id"), "id"); err != nil {
		return filter, err
	}
	if filter.Salary, err = optionalInt(c.Query("salary"), "salary"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", field)
	}
	return &v, nil
}
