package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/example/taskboard/domain/task"
)

// Repository owns all persistence operations for tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Insert persists a new task. The repository assigns the identifier
// when the caller did not supply one.
func (r *Repository) Insert(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its identifier.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task %s: %w", id, err)
	}
	return &t, nil
}

// FindAll retrieves every task ordered by creation time, newest first.
// An empty table yields an empty slice, not an error.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateByID applies a partial merge of the given columns onto the
// stored record. updated_at is always overwritten with the current
// time, so an existing record is always touched. Returns the record
// as stored after the merge.
func (r *Repository) UpdateByID(ctx context.Context, id string, updates map[string]any) (*domain.Task, error) {
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(merged)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.FindByID(ctx, id)
}

// DeleteByID removes a task permanently. It reports whether a record
// was actually deleted; a missing record is false, not an error.
func (r *Repository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
