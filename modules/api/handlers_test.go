package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/taskboard/modules/task"
)

// stubTaskPort lets each test plug in just the behavior it needs.
type stubTaskPort struct {
	createFn       func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error)
	getFn          func(ctx context.Context, taskID string) (*task.TaskResponse, error)
	listFn         func(ctx context.Context) (*task.ListTasksResponse, error)
	updateFn       func(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error)
	updateStatusFn func(ctx context.Context, taskID, status string) (*task.TaskResponse, error)
	deleteFn       func(ctx context.Context, taskID string) error
	categoriesFn   func(ctx context.Context) (*task.ListCategoriesResponse, error)
}

func (s *stubTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	return s.createFn(ctx, req)
}

func (s *stubTaskPort) GetTask(ctx context.Context, taskID string) (*task.TaskResponse, error) {
	return s.getFn(ctx, taskID)
}

func (s *stubTaskPort) ListTasks(ctx context.Context) (*task.ListTasksResponse, error) {
	return s.listFn(ctx)
}

func (s *stubTaskPort) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	return s.updateFn(ctx, req)
}

func (s *stubTaskPort) UpdateTaskStatus(ctx context.Context, taskID, status string) (*task.TaskResponse, error) {
	return s.updateStatusFn(ctx, taskID, status)
}

func (s *stubTaskPort) DeleteTask(ctx context.Context, taskID string) error {
	return s.deleteFn(ctx, taskID)
}

func (s *stubTaskPort) ListCategories(ctx context.Context) (*task.ListCategoriesResponse, error) {
	return s.categoriesFn(ctx)
}

func setupTestAPI(t *testing.T, port *stubTaskPort) *Module {
	t.Helper()

	m := NewModule(0)
	m.taskPort = port
	require.NoError(t, m.Init(nil))
	m.setupRoutes()
	return m
}

func doRequest(t *testing.T, m *Module, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.GetApp().Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NoError(t, resp.Body.Close())
	return out
}

func sampleTask(id string) *task.TaskResponse {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &task.TaskResponse{
		ID:          id,
		Title:       "Sample",
		Description: "sample task",
		Priority:    "low",
		Status:      "todo",
		Deadline:    now.Add(72 * time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateTaskEndpoint(t *testing.T) {
	port := &stubTaskPort{
		createFn: func(_ context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
			resp := sampleTask("t-1")
			resp.Title = req.Title
			resp.Priority = req.Priority
			return resp, nil
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodPost, "/api/v1/tasks", CreateTaskBody{
		Title:       "Buy milk",
		Description: "2 liters",
		Priority:    "high",
		Deadline:    "2025-07-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[task.TaskResponse](t, resp)
	assert.Equal(t, "t-1", body.ID)
	assert.Equal(t, "Buy milk", body.Title)
	assert.Equal(t, "high", body.Priority)
}

func TestCreateTaskEndpointValidation(t *testing.T) {
	port := &stubTaskPort{
		createFn: func(context.Context, *task.CreateTaskRequest) (*task.TaskResponse, error) {
			return nil, &task.ValidationError{Missing: []string{"title", "deadline"}}
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodPost, "/api/v1/tasks", CreateTaskBody{Description: "no title"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "title")
	assert.Contains(t, body.Error, "deadline")
}

func TestCreateTaskEndpointBadJSON(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.GetApp().Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTaskEndpointNotFound(t *testing.T) {
	port := &stubTaskPort{
		getFn: func(_ context.Context, taskID string) (*task.TaskResponse, error) {
			return nil, task.ErrTaskNotFound
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "task not found", body.Error)
}

func TestGetTaskEndpointInternalError(t *testing.T) {
	port := &stubTaskPort{
		getFn: func(context.Context, string) (*task.TaskResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks/t-1", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// Internal details never leak into the response body.
	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "internal server error", body.Error)
}

func TestListTasksEndpoint(t *testing.T) {
	port := &stubTaskPort{
		listFn: func(context.Context) (*task.ListTasksResponse, error) {
			return &task.ListTasksResponse{
				Tasks: []task.TaskResponse{*sampleTask("t-1"), *sampleTask("t-2")},
				Total: 2,
			}, nil
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[[]task.TaskResponse](t, resp)
	require.Len(t, body, 2)
	assert.Equal(t, "t-1", body[0].ID)
	assert.Equal(t, "t-2", body[1].ID)
}

func TestUpdateTaskStatusEndpoint(t *testing.T) {
	var gotID, gotStatus string
	port := &stubTaskPort{
		updateStatusFn: func(_ context.Context, taskID, status string) (*task.TaskResponse, error) {
			gotID, gotStatus = taskID, status
			resp := sampleTask(taskID)
			resp.Status = status
			return resp, nil
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodPatch, "/api/v1/tasks/t-9/status", UpdateStatusBody{Status: "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "t-9", gotID)
	assert.Equal(t, "done", gotStatus)

	body := decodeBody[task.TaskResponse](t, resp)
	assert.Equal(t, "done", body.Status)
}

func TestUpdateTaskEndpointPartialBody(t *testing.T) {
	var gotReq *task.UpdateTaskRequest
	port := &stubTaskPort{
		updateFn: func(_ context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
			gotReq = req
			return sampleTask(req.TaskID), nil
		},
	}
	m := setupTestAPI(t, port)

	title := "New title"
	resp := doRequest(t, m, http.MethodPut, "/api/v1/tasks/t-3", UpdateTaskBody{Title: &title})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, gotReq)
	assert.Equal(t, "t-3", gotReq.TaskID)
	require.NotNil(t, gotReq.Title)
	assert.Equal(t, "New title", *gotReq.Title)
	assert.Nil(t, gotReq.Description, "absent fields stay nil")
	assert.Nil(t, gotReq.Status)
}

func TestDeleteTaskEndpoint(t *testing.T) {
	port := &stubTaskPort{
		deleteFn: func(_ context.Context, taskID string) error {
			if taskID != "t-4" {
				return task.ErrTaskNotFound
			}
			return nil
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodDelete, "/api/v1/tasks/t-4", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[DeleteResponse](t, resp)
	assert.True(t, body.Success)

	resp = doRequest(t, m, http.MethodDelete, "/api/v1/tasks/other", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCategoriesEndpoint(t *testing.T) {
	port := &stubTaskPort{
		categoriesFn: func(context.Context) (*task.ListCategoriesResponse, error) {
			return &task.ListCategoriesResponse{}, nil
		},
	}
	m := setupTestAPI(t, port)

	resp := doRequest(t, m, http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestActivityEndpointWithoutFeed(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	resp := doRequest(t, m, http.MethodGet, "/api/v1/activity", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[[]any](t, resp)
	assert.Empty(t, body)
}

func TestStreamingEndpoint(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	start := time.Now()
	resp := doRequest(t, m, http.MethodGet, "/api/v1/streaming", nil)
	elapsed := time.Since(start)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, elapsed, streamDelay, "the mock source delay applies")

	body := decodeBody[StreamingResponse](t, resp)
	require.Len(t, body.Data, 3)
	assert.Equal(t, "Stream 1", body.Data[0].Name)
	assert.False(t, body.Timestamp.IsZero())
}

func TestCacheStatsEndpointUnavailable(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	resp := doRequest(t, m, http.MethodGet, "/api/v1/cache/stats", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "cache not available", body.Error)
}

func TestHealthEndpoint(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	resp := doRequest(t, m, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[HealthResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	m := setupTestAPI(t, &stubTaskPort{})

	resp := doRequest(t, m, http.MethodGet, "/api/v1/unknown", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.NotEmpty(t, body.Error)
}
