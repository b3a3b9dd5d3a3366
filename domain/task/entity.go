package task

import "time"

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow  TaskPriority = "low"
	PriorityHigh TaskPriority = "high"
)

// IsValid reports whether the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	return p == PriorityLow || p == PriorityHigh
}

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Task is the core domain entity representing a board item.
type Task struct {
	ID          string       `gorm:"primarykey;size:36" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"size:2000;not null" json:"description"`
	Priority    TaskPriority `gorm:"size:16;not null;default:low" json:"priority"`
	Status      TaskStatus   `gorm:"size:16;not null;default:todo" json:"status"`
	Deadline    time.Time    `gorm:"not null;index" json:"deadline"`
	AssignedTo  string       `gorm:"size:100" json:"assignedTo,omitempty"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Expired reports whether the task's deadline has passed without completion.
func (t *Task) Expired(now time.Time) bool {
	return t.Deadline.Before(now) && t.Status != StatusDone
}
