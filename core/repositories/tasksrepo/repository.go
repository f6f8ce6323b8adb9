// Package tasksrepo provides business access to tasks in the system.
package tasksrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrazmi/taskdeck/sdk/logger"
)

// ErrNotFound is returned when a task with a given id does not exist.
var ErrNotFound = errors.New("task not found")

// Storer defines the complete data storage interface for Task. The store owns
// id assignment and insertion order; callers never see its internal slices.
type Storer interface {
	List(ctx context.Context) ([]Task, error)
	QueryByID(ctx context.Context, taskID string) (Task, error)
	Exists(ctx context.Context, taskID string) (bool, error)
	Create(ctx context.Context, ct CreateTask) (Task, error)
	Update(ctx context.Context, taskID string, ut UpdateTask) (Task, error)
	Delete(ctx context.Context, taskID string) (bool, error)
}

// Repository provides access to task storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new Task repository.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// List returns every stored task in insertion order.
func (r *Repository) List(ctx context.Context) ([]Task, error) {
	tasks, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// QueryByID returns the task with the given id or ErrNotFound.
func (r *Repository) QueryByID(ctx context.Context, taskID string) (Task, error) {
	task, err := r.storer.QueryByID(ctx, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("query task %s: %w", taskID, err)
	}
	return task, nil
}

// Exists reports whether a task with the given id is stored.
func (r *Repository) Exists(ctx context.Context, taskID string) (bool, error) {
	ok, err := r.storer.Exists(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("task exists %s: %w", taskID, err)
	}
	return ok, nil
}

// Create validates the input and stores a new task. The store assigns the id
// and defaults the status to pending.
func (r *Repository) Create(ctx context.Context, ct CreateTask) (Task, error) {
	if err := ct.Validate(); err != nil {
		return Task{}, fmt.Errorf("validate: %w", err)
	}

	task, err := r.storer.Create(ctx, ct)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	r.log.InfoContext(ctx, "created task", "task_id", task.ID)
	return task, nil
}

// Update changes the status of an existing task, leaving every other field
// untouched.
func (r *Repository) Update(ctx context.Context, taskID string, ut UpdateTask) (Task, error) {
	if err := ut.Validate(); err != nil {
		return Task{}, fmt.Errorf("validate: %w", err)
	}

	task, err := r.storer.Update(ctx, taskID, ut)
	if err != nil {
		return Task{}, fmt.Errorf("update task %s: %w", taskID, err)
	}

	r.log.InfoContext(ctx, "updated task status", "task_id", task.ID, "status", task.Status)
	return task, nil
}

// Delete removes the task with the given id. The bool result reports whether
// a removal occurred; a second delete of the same id is not an error.
func (r *Repository) Delete(ctx context.Context, taskID string) (bool, error) {
	deleted, err := r.storer.Delete(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("delete task %s: %w", taskID, err)
	}

	if deleted {
		r.log.InfoContext(ctx, "deleted task", "task_id", taskID)
	}
	return deleted, nil
}
