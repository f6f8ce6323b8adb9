// Package taskmemstore implements the tasksrepo.Storer interface with a
// process-local in-memory collection. There is no persistence; state lives for
// the lifetime of the process.
package taskmemstore

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
)

// Store holds the authoritative task collection. Handlers run concurrently,
// so the slice and the id counter are guarded by a RWMutex; each operation is
// atomic and serialized in lock-acquisition order.
type Store struct {
	mu     sync.RWMutex
	tasks  []tasksrepo.Task
	nextID int
}

// NewStore constructs an empty store. Ids start at "1".
func NewStore() *Store {
	return &Store{
		nextID: 1,
	}
}

// generateID assigns the next monotonically increasing numeric id. Ids are
// never reused, even after the task is deleted. Callers must hold the lock.
func (s *Store) generateID() string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

// List returns every stored task in insertion order. The result is a copy so
// callers cannot mutate the store through it.
func (s *Store) List(ctx context.Context) ([]tasksrepo.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]tasksrepo.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks, nil
}

// QueryByID returns the task with the given id or tasksrepo.ErrNotFound.
func (s *Store) QueryByID(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, task := range s.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return tasksrepo.Task{}, tasksrepo.ErrNotFound
}

// Exists reports whether a task with the given id is stored.
func (s *Store) Exists(ctx context.Context, taskID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, task := range s.tasks {
		if task.ID == taskID {
			return true, nil
		}
	}
	return false, nil
}

// Create assigns a new id, defaults the status to pending, and appends the
// task to the collection. Incidental whitespace on title and description is
// trimmed before storage.
func (s *Store) Create(ctx context.Context, ct tasksrepo.CreateTask) (tasksrepo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := tasksrepo.StatusPending
	if ct.Status != nil {
		status = *ct.Status
	}

	task := tasksrepo.Task{
		ID:          s.generateID(),
		Title:       strings.TrimSpace(ct.Title),
		Description: strings.TrimSpace(ct.Description),
		Status:      status,
	}

	s.tasks = append(s.tasks, task)
	return task, nil
}

// Update replaces only the status of the task with the given id, in place.
func (s *Store) Update(ctx context.Context, taskID string, ut tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].Status = ut.Status
			return s.tasks[i], nil
		}
	}
	return tasksrepo.Task{}, tasksrepo.ErrNotFound
}

// Delete removes the task with the given id, reporting whether a removal
// occurred. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
