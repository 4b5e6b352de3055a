// Package client talks to the employee REST API. A Client is a
// bulk.Dispatcher, so imports can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/models"
)

const basePath = "/api/employee"

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a REST client for the employee API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ bulk.Dispatcher = (*Client)(nil)

// New returns a client for baseURL. A nil httpClient gets a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches employees matching filter
func (c *Client) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	q := url.Values{}
	if filter.ID != nil {
		q.Set("id", strconv.Itoa(*filter.ID))
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Department != "" {
		q.Set("department", filter.Department)
	}
	if filter.Salary != nil {
		q.Set("salary", strconv.Itoa(*filter.Salary))
	}

	path := basePath + "/GetEmployeeList"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	employees := make([]models.Employee, 0)
	if err := c.do(ctx, http.MethodGet, path, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Get fetches one employee. A missing id is an *APIError for which
// IsNotFound reports true.
func (c *Client) Get(ctx context.Context, id int) (*models.Employee, error) {
	var employee models.Employee
	path := basePath + "/GetEmployee?id=" + strconv.Itoa(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create adds an employee and returns the assigned id
func (c *Client) Create(ctx context.Context, employee models.Employee) (int, error) {
	req := models.AddEmployeeRequest{
		Name:       employee.Name,
		Department: employee.Department,
		Salary:     employee.Salary,
	}
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, basePath+"/AddEmployee", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Update overwrites the employee with the given id
func (c *Client) Update(ctx context.Context, id int, employee models.Employee) error {
	req := models.UpdateEmployeeRequest{
		ID:         id,
		Name:       employee.Name,
		Department: employee.Department,
		Salary:     employee.Salary,
	}
	return c.do(ctx, http.MethodPut, basePath+"/UpdateEmployee", req, nil)
}

// Delete removes the employee with the given id
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, basePath+"/DeleteEmployee", models.DeleteEmployeeRequest{ID: id}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
