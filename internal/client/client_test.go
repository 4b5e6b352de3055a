package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal in-memory version of the employee routes
type fakeAPI struct {
	mu        sync.Mutex
	employees map[int]models.Employee
	nextID    int
	lastQuery string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{employees: map[int]models.Employee{}, nextID: 1}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, New(srv.URL+"/", srv.Client())
}

func (f *fakeAPI) snapshot() (map[int]models.Employee, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]models.Employee, len(f.employees))
	for id, e := range f.employees {
		out[id] = e
	}
	return out, f.lastQuery
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /api/employee/GetEmployeeList":
		f.lastQuery = r.URL.RawQuery
		out := []models.Employee{}
		for id := 1; id < f.nextID; id++ {
			if e, ok := f.employees[id]; ok {
				out = append(out, e)
			}
		}
		writeJSON(http.StatusOK, out)
	case "GET /api/employee/GetEmployee":
		id, _ := strconv.Atoi(r.URL.Query().Get("id"))
		e, ok := f.employees[id]
		if !ok {
			writeJSON(http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		writeJSON(http.StatusOK, e)
	case "POST /api/employee/AddEmployee":
		var req models.AddEmployeeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Salary <= 0 {
			writeJSON(http.StatusBadRequest, map[string]string{"error": "salary must be greater than zero"})
			return
		}
		id := f.nextID
		f.nextID++
		f.employees[id] = models.Employee{ID: id, Name: req.Name, Department: req.Department, Salary: req.Salary}
		writeJSON(http.StatusCreated, map[string]int{"id": id})
	case "PUT /api/employee/UpdateEmployee":
		var req models.UpdateEmployeeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.employees[req.ID]; !ok {
			writeJSON(http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		f.employees[req.ID] = models.Employee{ID: req.ID, Name: req.Name, Department: req.Department, Salary: req.Salary}
		writeJSON(http.StatusOK, map[string]string{"message": "Employee updated successfully"})
	case "DELETE /api/employee/DeleteEmployee":
		var req models.DeleteEmployeeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.employees[req.ID]; !ok {
			writeJSON(http.StatusNotFound, map[string]string{"error": "employee not found"})
			return
		}
		delete(f.employees, req.ID)
		writeJSON(http.StatusOK, map[string]string{"message": "Employee deleted successfully"})
	default:
		http.Error(w, "no route", http.StatusTeapot)
	}
}

func TestClient_CRUD(t *testing.T) {
	api, c := newFakeAPI(t)
	ctx := context.Background()

	id, err := c.Create(ctx, models.Employee{Name: "Ada", Department: "Engineering", Salary: 700000})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	require.NoError(t, c.Update(ctx, id, models.Employee{Name: "Ada L", Department: "Research", Salary: 710000}))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &models.Employee{ID: 1, Name: "Ada L", Department: "Research", Salary: 710000}, got)

	employees, err := c.List(ctx, models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []models.Employee{{ID: 1, Name: "Ada L", Department: "Research", Salary: 710000}}, employees)

	require.NoError(t, c.Delete(ctx, id))
	stored, _ := api.snapshot()
	assert.Empty(t, stored)

	_, err = c.Get(ctx, id)
	assert.True(t, IsNotFound(err))
}

func TestClient_ListEncodesFilter(t *testing.T) {
	api, c := newFakeAPI(t)
	id, salary := 4, 500

	_, err := c.List(context.Background(), models.EmployeeFilter{ID: &id, Name: "Doe, Jane", Department: "R&D", Salary: &salary})
	require.NoError(t, err)
	_, query := api.snapshot()
	assert.Equal(t, "department=R%26D&id=4&name=Doe%2C+Jane&salary=500", query)
}

func TestClient_APIErrors(t *testing.T) {
	_, c := newFakeAPI(t)
	ctx := context.Background()

	_, err := c.Create(ctx, models.Employee{Name: "A", Department: "B"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "salary must be greater than zero", apiErr.Message)

	err = c.Update(ctx, 42, models.Employee{Name: "A", Department: "B", Salary: 1})
	assert.True(t, IsNotFound(err))

	err = c.Delete(ctx, 42)
	assert.True(t, IsNotFound(err))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, srv.Client()).Delete(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestClient_AsDispatcher(t *testing.T) {
	api, c := newFakeAPI(t)
	ctx := context.Background()
	_, err := c.Create(ctx, models.Employee{Name: "John Doe", Department: "IT", Salary: 600000})
	require.NoError(t, err)

	input := "ID,Name,Department,Salary\n" +
		"1,John Doe,IT,650000\n" +
		",Jane Smith,HR,550000\n" +
		"7,Ghost,None,1\n" +
		",Broke,Ops,\n"

	outcome, err := bulk.Import(ctx, strings.NewReader(input), c, bulk.Options{Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, bulk.Outcome{Success: 2, Failure: 2}, outcome)
	stored, _ := api.snapshot()
	assert.Equal(t, 650000, stored[1].Salary)
	assert.Len(t, stored, 2)
}

func TestClient_ContextCancelled(t *testing.T) {
	_, c := newFakeAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx, models.EmployeeFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
