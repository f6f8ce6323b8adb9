package taskmemstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo/stores/taskmemstore"
)

func TestStore_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		task, err := store.Create(ctx, tasksrepo.CreateTask{
			Title:       fmt.Sprintf("task %d", i),
			Description: "test",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("id %q assigned twice", task.ID)
		}
		seen[task.ID] = true

		tasks, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != i+1 {
			t.Fatalf("expected %d tasks after create, got %d", i+1, len(tasks))
		}
	}
}

func TestStore_CreateDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	task, err := store.Create(ctx, tasksrepo.CreateTask{Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != tasksrepo.StatusPending {
		t.Errorf("expected default status %q, got %q", tasksrepo.StatusPending, task.Status)
	}

	done := tasksrepo.StatusDone
	task, err = store.Create(ctx, tasksrepo.CreateTask{Title: "t2", Description: "d", Status: &done})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != tasksrepo.StatusDone {
		t.Errorf("expected explicit status %q, got %q", tasksrepo.StatusDone, task.Status)
	}
}

func TestStore_CreateTrimsWhitespace(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	task, err := store.Create(ctx, tasksrepo.CreateTask{Title: "  buy milk  ", Description: " 2% "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Description != "2%" {
		t.Errorf("expected trimmed description, got %q", task.Description)
	}
}

func TestStore_ListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	if _, err := store.Create(ctx, tasksrepo.CreateTask{Title: "a", Description: "d"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	tasks[0].Title = "mutated"
	tasks[0].Status = tasksrepo.StatusDone

	fresh, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if fresh[0].Title != "a" || fresh[0].Status != tasksrepo.StatusPending {
		t.Error("mutating the listed slice leaked into the store")
	}
}

func TestStore_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, tasksrepo.CreateTask{Title: title, Description: "d"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tasks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, tasks[i].Title)
		}
	}
}

func TestStore_UpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	if _, err := store.Create(ctx, tasksrepo.CreateTask{Title: "a", Description: "d"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := store.List(ctx)

	_, err := store.Update(ctx, "999", tasksrepo.UpdateTask{Status: tasksrepo.StatusDone})
	if err != tasksrepo.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, _ := store.List(ctx)
	if len(after) != len(before) || after[0] != before[0] {
		t.Error("failed update changed store contents")
	}
}

func TestStore_UpdateOnlyTouchesStatus(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	created, err := store.Create(ctx, tasksrepo.CreateTask{Title: "buy milk", Description: "2%"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := store.Update(ctx, created.ID, tasksrepo.UpdateTask{Status: tasksrepo.StatusDone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := created
	want.Status = tasksrepo.StatusDone
	if updated != want {
		t.Errorf("expected %+v, got %+v", want, updated)
	}
}

func TestStore_DeleteIsIdempotentObservation(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	created, err := store.Create(ctx, tasksrepo.CreateTask{Title: "a", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to remove, got deleted=%v err=%v", deleted, err)
	}

	exists, err := store.Exists(ctx, created.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("task still exists after delete")
	}

	deleted, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("second delete reported a removal")
	}
}

func TestStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	first, err := store.Create(ctx, tasksrepo.CreateTask{Title: "a", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second, err := store.Create(ctx, tasksrepo.CreateTask{Title: "b", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("id %q was reused after deletion", first.ID)
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := taskmemstore.NewStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Create(ctx, tasksrepo.CreateTask{
				Title:       fmt.Sprintf("task %d", i),
				Description: "concurrent",
			}); err != nil {
				t.Errorf("create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	tasks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(tasks))
	}

	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %q under concurrent creates", task.ID)
		}
		seen[task.ID] = true
	}
}
