package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/taskboard/modules/task"
)

// streamDelay mimics the latency of the upstream streaming source the
// mock endpoint stands in for.
const streamDelay = time.Second

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Patch("/:id/status", m.updateTaskStatus)
	tasks.Delete("/:id", m.deleteTask)

	api.Get("/categories", m.listCategories)
	api.Get("/activity", m.listActivity)
	api.Get("/streaming", m.streaming)

	cache := api.Group("/cache")
	cache.Get("/stats", m.cacheStats)
	cache.Post("/flush", m.cacheFlush)
}

// mapServiceError translates a task service error into an HTTP reply.
// Everything unexpected is logged with the operation context and hidden
// behind a generic 500 body.
func (m *Module) mapServiceError(c *fiber.Ctx, op, taskID string, err error) error {
	switch {
	case task.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case task.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "task not found"})
	default:
		log.Printf("[api] %s failed (task=%q): %v", op, taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// listTasks handles GET /api/v1/tasks.
func (m *Module) listTasks(c *fiber.Ctx) error {
	resp, err := m.taskPort.ListTasks(c.Context())
	if err != nil {
		return m.mapServiceError(c, "list tasks", "", err)
	}
	return c.JSON(resp.Tasks)
}

// createTask handles POST /api/v1/tasks.
func (m *Module) createTask(c *fiber.Ctx) error {
	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := m.taskPort.CreateTask(c.Context(), &task.CreateTaskRequest{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      body.Status,
		Deadline:    body.Deadline,
		AssignedTo:  body.AssignedTo,
	})
	if err != nil {
		return m.mapServiceError(c, "create task", "", err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// getTask handles GET /api/v1/tasks/:id.
func (m *Module) getTask(c *fiber.Ctx) error {
	taskID := c.Params("id")

	resp, err := m.taskPort.GetTask(c.Context(), taskID)
	if err != nil {
		return m.mapServiceError(c, "get task", taskID, err)
	}
	return c.JSON(resp)
}

// updateTask handles PUT /api/v1/tasks/:id.
func (m *Module) updateTask(c *fiber.Ctx) error {
	taskID := c.Params("id")

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := m.taskPort.UpdateTask(c.Context(), &task.UpdateTaskRequest{
		TaskID:      taskID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      body.Status,
		Deadline:    body.Deadline,
		AssignedTo:  body.AssignedTo,
	})
	if err != nil {
		return m.mapServiceError(c, "update task", taskID, err)
	}
	return c.JSON(resp)
}

// updateTaskStatus handles PATCH /api/v1/tasks/:id/status.
func (m *Module) updateTaskStatus(c *fiber.Ctx) error {
	taskID := c.Params("id")

	var body UpdateStatusBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := m.taskPort.UpdateTaskStatus(c.Context(), taskID, body.Status)
	if err != nil {
		return m.mapServiceError(c, "update task status", taskID, err)
	}
	return c.JSON(resp)
}

// deleteTask handles DELETE /api/v1/tasks/:id.
func (m *Module) deleteTask(c *fiber.Ctx) error {
	taskID := c.Params("id")

	if err := m.taskPort.DeleteTask(c.Context(), taskID); err != nil {
		return m.mapServiceError(c, "delete task", taskID, err)
	}
	return c.JSON(DeleteResponse{Success: true})
}

// listCategories handles GET /api/v1/categories.
func (m *Module) listCategories(c *fiber.Ctx) error {
	resp, err := m.taskPort.ListCategories(c.Context())
	if err != nil {
		return m.mapServiceError(c, "list categories", "", err)
	}
	return c.JSON(resp.Categories)
}

// listActivity handles GET /api/v1/activity.
func (m *Module) listActivity(c *fiber.Ctx) error {
	if m.activity == nil {
		return c.JSON([]any{})
	}
	return c.JSON(m.activity.Recent())
}

// streaming handles GET /api/v1/streaming. The payload is mock data
// behind an artificial delay; there is no real upstream.
func (m *Module) streaming(c *fiber.Ctx) error {
	select {
	case <-time.After(streamDelay):
	case <-c.Context().Done():
		return nil
	}

	return c.JSON(StreamingResponse{
		Timestamp: time.Now().UTC(),
		Data: []StreamRow{
			{ID: 1, Name: "Stream 1", Status: "active", Viewers: 120},
			{ID: 2, Name: "Stream 2", Status: "active", Viewers: 85},
			{ID: 3, Name: "Stream 3", Status: "inactive", Viewers: 0},
		},
	})
}

// cacheStats handles GET /api/v1/cache/stats.
func (m *Module) cacheStats(c *fiber.Ctx) error {
	if m.cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "cache not available"})
	}
	return c.JSON(m.cache.GetStats())
}

// cacheFlush handles POST /api/v1/cache/flush.
func (m *Module) cacheFlush(c *fiber.Ctx) error {
	if m.cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "cache not available"})
	}
	if err := m.cache.DeletePattern(c.Context(), "*"); err != nil {
		log.Printf("[api] cache flush failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(DeleteResponse{Success: true})
}
