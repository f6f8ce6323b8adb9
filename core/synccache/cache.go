// Package synccache maintains a local, optimistically updated mirror of the
// server's task list.
//
// Mutations apply to the local copy immediately, then run against the server
// in the background. A confirmed mutation reconciles the local copy with the
// server's answer; a failed one rolls the local copy back to the snapshot
// taken before the mutation and records the failure in a single error slot.
package synccache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/poller"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/validation"
)

const tempIDPrefix = "temp-"

// TempID generates a placeholder id for a task that has not been confirmed
// by the server yet.
func TempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether the id is a local placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Backend is the server surface the cache mutates and refreshes from.
type Backend interface {
	List(ctx context.Context) ([]tasksrepo.Task, error)
	Create(ctx context.Context, ct tasksrepo.CreateTask) (tasksrepo.Task, error)
	UpdateStatus(ctx context.Context, taskID string, status tasksrepo.Status) (tasksrepo.Task, error)
	Delete(ctx context.Context, taskID string) error
}

// Cache is the optimistic task mirror. All methods are safe for concurrent
// use.
type Cache struct {
	log     *logger.Logger
	backend Backend

	mu            sync.Mutex
	tasks         []tasksrepo.Task
	errMsg        string
	refreshCancel context.CancelFunc
	generation    uint64

	poller *poller.Poller
}

// NewCache creates a cache over the given backend. The cache starts empty;
// call Refresh or Watch to populate it.
func NewCache(log *logger.Logger, backend Backend) *Cache {
	return &Cache{
		log:     log,
		backend: backend,
	}
}

// Tasks returns a copy of the current local task list.
func (c *Cache) Tasks() []tasksrepo.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]tasksrepo.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Err returns the message of the most recent failed mutation, or "" when the
// slot is clear. A new mutation clears the slot before it runs.
func (c *Cache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError empties the error slot.
func (c *Cache) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// Refresh replaces the local task list with the server's. The result is
// discarded if a mutation started after this refresh did; the mutation's
// view of the list wins.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	gen := c.generation
	refreshCtx, cancel := context.WithCancel(ctx)
	c.refreshCancel = cancel
	c.mu.Unlock()
	defer cancel()

	tasks, err := c.backend.List(refreshCtx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.log.DebugContext(ctx, "refresh result discarded", "generation", gen)
		return nil
	}

	c.tasks = tasks
	return nil
}

// Create adds the task locally under a temporary id, then creates it on the
// server. On confirmation the temporary entry is swapped for the server's
// copy; on failure the list is rolled back. The returned id is the temporary
// one.
func (c *Cache) Create(ctx context.Context, ct tasksrepo.CreateTask) (string, error) {
	status := validation.ValueOr(ct.Status, tasksrepo.StatusPending)

	tempID := TempID()
	speculative := tasksrepo.Task{
		ID:          tempID,
		Title:       ct.Title,
		Description: ct.Description,
		Status:      status,
	}

	snapshot := c.beginMutation(func(tasks []tasksrepo.Task) []tasksrepo.Task {
		return append(tasks, speculative)
	})

	created, err := c.backend.Create(ctx, ct)
	if err != nil {
		c.rollback(ctx, snapshot, err)
		return tempID, err
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == tempID {
			c.tasks[i] = created
			break
		}
	}
	c.mu.Unlock()

	c.kickRefresh()
	return created.ID, nil
}

// UpdateStatus flips the task's status locally, then on the server.
func (c *Cache) UpdateStatus(ctx context.Context, taskID string, status tasksrepo.Status) error {
	snapshot := c.beginMutation(func(tasks []tasksrepo.Task) []tasksrepo.Task {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].Status = status
			}
		}
		return tasks
	})

	updated, err := c.backend.UpdateStatus(ctx, taskID, status)
	if err != nil {
		c.rollback(ctx, snapshot, err)
		return err
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == taskID {
			c.tasks[i] = updated
			break
		}
	}
	c.mu.Unlock()

	c.kickRefresh()
	return nil
}

// Delete removes the task locally, then on the server.
func (c *Cache) Delete(ctx context.Context, taskID string) error {
	snapshot := c.beginMutation(func(tasks []tasksrepo.Task) []tasksrepo.Task {
		out := tasks[:0]
		for _, task := range tasks {
			if task.ID != taskID {
				out = append(out, task)
			}
		}
		return out
	})

	if err := c.backend.Delete(ctx, taskID); err != nil {
		c.rollback(ctx, snapshot, err)
		return err
	}

	c.kickRefresh()
	return nil
}

// Watch starts periodic background refreshes. The returned function stops
// them. Confirmed mutations nudge the watcher to refresh early.
func (c *Cache) Watch(ctx context.Context, interval time.Duration) func() {
	p := poller.New("synccache", interval, c.Refresh, poller.WithLogger(c.log))

	c.mu.Lock()
	c.poller = p
	c.mu.Unlock()

	p.Start(ctx)

	return func() {
		p.Stop()
		c.mu.Lock()
		if c.poller == p {
			c.poller = nil
		}
		c.mu.Unlock()
	}
}

// beginMutation prepares the cache for a speculative mutation: it clears the
// error slot, cancels any in-flight refresh, snapshots the current list, and
// applies the speculative change. The snapshot is returned for rollback.
func (c *Cache) beginMutation(apply func([]tasksrepo.Task) []tasksrepo.Task) []tasksrepo.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = ""
	c.generation++

	if c.refreshCancel != nil {
		c.refreshCancel()
		c.refreshCancel = nil
	}

	snapshot := make([]tasksrepo.Task, len(c.tasks))
	copy(snapshot, c.tasks)

	working := make([]tasksrepo.Task, len(c.tasks))
	copy(working, c.tasks)
	c.tasks = apply(working)

	return snapshot
}

// rollback restores the pre-mutation snapshot and records the failure.
func (c *Cache) rollback(ctx context.Context, snapshot []tasksrepo.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = snapshot
	c.errMsg = err.Error()

	c.log.WarnContext(ctx, "mutation rolled back", "err", err)
}

func (c *Cache) kickRefresh() {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()

	if p != nil {
		p.Kick()
	}
}
