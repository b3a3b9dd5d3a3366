package task

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/events"
)

const (
	listCacheKey       = "list"
	taskCacheKeyPrefix = "task:"
)

// deadlineLayouts are the accepted wire formats for deadlines: full
// ISO-8601 timestamps or plain calendar dates.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDeadline(value string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized deadline format: %q", value)
}

// createTask handles the create-task service request. Timestamps are
// assigned here, not by the store, so createdAt equals updatedAt on
// every freshly created record.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	verr := &ValidationError{}
	if req.Title == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	if req.Description == "" {
		verr.Missing = append(verr.Missing, "description")
	}
	if req.Deadline == "" {
		verr.Missing = append(verr.Missing, "deadline")
	}
	if len(verr.Missing) > 0 {
		return TaskResponse{}, verr
	}

	priority := domain.PriorityLow
	if req.Priority != "" {
		priority = domain.TaskPriority(req.Priority)
		if !priority.IsValid() {
			verr.Invalid = append(verr.Invalid, "priority")
		}
	}
	status := domain.StatusTodo
	if req.Status != "" {
		status = domain.TaskStatus(req.Status)
		if !status.IsValid() {
			verr.Invalid = append(verr.Invalid, "status")
		}
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		verr.Invalid = append(verr.Invalid, "deadline")
	}
	if len(verr.Invalid) > 0 {
		return TaskResponse{}, verr
	}

	now := time.Now().UTC()
	t := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      status,
		Deadline:    deadline,
		AssignedTo:  req.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Insert(ctx, t); err != nil {
		return TaskResponse{}, err
	}

	m.invalidate(ctx, t.ID)

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Deadline:  t.Deadline,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// getTask handles the get-task service request, reading through the
// cache when one is wired.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	key := taskCacheKeyPrefix + req.TaskID
	if m.cache != nil {
		var cached TaskResponse
		hit, err := m.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] Cache read failed for %s: %v", key, err)
		}
		if hit {
			return cached, nil
		}
	}

	t, err := m.repo.FindByID(ctx, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	resp := toTaskResponse(t)
	if m.cache != nil {
		if err := m.cache.Set(ctx, key, resp); err != nil {
			log.Printf("[task] Cache write failed for %s: %v", key, err)
		}
	}
	return resp, nil
}

// listTasks handles the list-tasks service request. Results are ordered
// by creation time, newest first.
func (m *TaskModule) listTasks(ctx context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if m.cache != nil {
		var cached ListTasksResponse
		hit, err := m.cache.Get(ctx, listCacheKey, &cached)
		if err != nil {
			log.Printf("[task] Cache read failed for %s: %v", listCacheKey, err)
		}
		if hit {
			return cached, nil
		}
	}

	tasks, err := m.repo.FindAll(ctx)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, listCacheKey, resp); err != nil {
			log.Printf("[task] Cache write failed for %s: %v", listCacheKey, err)
		}
	}
	return resp, nil
}

// updateTask handles the update-task service request: a partial merge
// of any subset of task fields except identity and createdAt.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	updates := make(map[string]any)
	verr := &ValidationError{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		if !domain.TaskPriority(*req.Priority).IsValid() {
			verr.Invalid = append(verr.Invalid, "priority")
		}
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		if !domain.TaskStatus(*req.Status).IsValid() {
			verr.Invalid = append(verr.Invalid, "status")
		}
		updates["status"] = *req.Status
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			verr.Invalid = append(verr.Invalid, "deadline")
		}
		updates["deadline"] = deadline
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if len(verr.Invalid) > 0 {
		return TaskResponse{}, verr
	}

	t, err := m.repo.UpdateByID(ctx, req.TaskID, updates)
	if err != nil {
		return TaskResponse{}, err
	}

	m.invalidate(ctx, t.ID)
	m.publishUpdated(t)
	return toTaskResponse(t), nil
}

// updateTaskStatus handles the update-task-status service request, the
// restricted update that only moves a task between workflow states.
func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	if !domain.TaskStatus(req.Status).IsValid() {
		return TaskResponse{}, &ValidationError{Invalid: []string{"status"}}
	}

	t, err := m.repo.UpdateByID(ctx, req.TaskID, map[string]any{"status": req.Status})
	if err != nil {
		return TaskResponse{}, err
	}

	m.invalidate(ctx, t.ID)
	m.publishUpdated(t)
	return toTaskResponse(t), nil
}

// deleteTask handles the delete-task service request (hard delete).
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	deleted, err := m.repo.DeleteByID(ctx, req.TaskID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	if !deleted {
		return DeleteTaskResponse{}, fmt.Errorf("%w: %s", ErrTaskNotFound, req.TaskID)
	}

	m.invalidate(ctx, req.TaskID)

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			DeletedAt: time.Now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", req.TaskID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true, ID: req.TaskID}, nil
}

// listCategories handles the list-categories service request: the
// derived expired/active/completed projection over the current board.
func (m *TaskModule) listCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	tasks, err := m.repo.FindAll(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return ListCategoriesResponse{Categories: domain.Categorize(tasks, time.Now().UTC())}, nil
}

// invalidate busts the read-path cache entries touched by a mutation.
// It runs exactly once per successful mutating call.
func (m *TaskModule) invalidate(ctx context.Context, taskID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, listCacheKey); err != nil {
		log.Printf("[task] Cache invalidation failed for %s: %v", listCacheKey, err)
	}
	if err := m.cache.Delete(ctx, taskCacheKeyPrefix+taskID); err != nil {
		log.Printf("[task] Cache invalidation failed for task %s: %v", taskID, err)
	}
}

// publishUpdated emits the TaskUpdated event, best-effort.
func (m *TaskModule) publishUpdated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskUpdatedEvent{
		TaskID:    t.ID,
		Status:    string(t.Status),
		UpdatedAt: t.UpdatedAt,
	}
	if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", t.ID, err)
	}
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Deadline:    t.Deadline,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
