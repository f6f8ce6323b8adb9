package taskclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
)

func newClientFor(ts *httptest.Server) *Client {
	return NewClient(
		WithBaseURL(ts.URL),
		WithMaxRetries(2),
		WithRetryWait(time.Millisecond),
	)
}

func TestList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/tasks", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []tasksrepo.Task{
				{ID: "1", Title: "First", Description: "one", Status: tasksrepo.StatusPending},
				{ID: "2", Title: "Second", Description: "two", Status: tasksrepo.StatusDone},
			},
			"count": 2,
		})
	}))
	defer ts.Close()

	tasks, err := newClientFor(ts).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, tasksrepo.StatusDone, tasks[1].Status)
}

func TestCreate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var ct tasksrepo.CreateTask
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ct))
		require.Equal(t, "Ship it", ct.Title)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": tasksrepo.Task{
				ID:          "7",
				Title:       ct.Title,
				Description: ct.Description,
				Status:      tasksrepo.StatusPending,
			},
			"message": "Task created successfully",
		})
	}))
	defer ts.Close()

	task, err := newClientFor(ts).Create(context.Background(), tasksrepo.CreateTask{
		Title:       "Ship it",
		Description: "cut the release",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", task.ID)
	assert.Equal(t, tasksrepo.StatusPending, task.Status)
}

func TestUpdateStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/tasks/3", r.URL.Path)

		var ut tasksrepo.UpdateTask
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ut))
		require.Equal(t, tasksrepo.StatusDone, ut.Status)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    tasksrepo.Task{ID: "3", Title: "T", Description: "d", Status: tasksrepo.StatusDone},
		})
	}))
	defer ts.Close()

	task, err := newClientFor(ts).UpdateStatus(context.Background(), "3", tasksrepo.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, tasksrepo.StatusDone, task.Status)
}

func TestNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Not Found",
			"message": "task with id 99 not found",
		})
	}))
	defer ts.Close()

	err := newClientFor(ts).Delete(context.Background(), "99")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestValidationErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Validation Error",
			"message": "title: is required",
		})
	}))
	defer ts.Close()

	_, err := newClientFor(ts).Create(context.Background(), tasksrepo.CreateTask{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title: is required", verr.Message)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Internal Server Error",
				"message": "boom",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []tasksrepo.Task{},
			"count":   0,
		})
	}))
	defer ts.Close()

	tasks, err := newClientFor(ts).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, int32(3), calls.Load())
}

func TestServerErrorExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Internal Server Error",
			"message": "still down",
		})
	}))
	defer ts.Close()

	_, err := newClientFor(ts).List(context.Background())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening

	_, err := newClientFor(ts).List(context.Background())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
}

func TestContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := newClientFor(ts).List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
