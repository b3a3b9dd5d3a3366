package api

import "time"

// CreateTaskBody is the HTTP request body for creating a task.
type CreateTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Deadline    string `json:"deadline"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

// UpdateTaskBody is the HTTP request body for a partial update. Absent
// fields are left untouched.
type UpdateTaskBody struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
}

// UpdateStatusBody is the HTTP request body for a status-only update.
type UpdateStatusBody struct {
	Status string `json:"status"`
}

// DeleteResponse is the HTTP response after deleting a task.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the stable error body returned for every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// StreamRow is one row of the mock streaming payload.
type StreamRow struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Viewers int    `json:"viewers"`
}

// StreamingResponse is the mock streaming payload.
type StreamingResponse struct {
	Timestamp time.Time   `json:"timestamp"`
	Data      []StreamRow `json:"data"`
}
