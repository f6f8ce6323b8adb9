// Package api wires the HTTP surface of the taskdeck service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrazmi/taskdeck/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskdeck/bridge/scaffolding/errs"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/web"
	"github.com/jrazmi/taskdeck/sdk/logger"
)

// Config carries the dependencies the API routes need.
type Config struct {
	Build          string
	Log            *logger.Logger
	TaskRepository *tasksrepo.Repository
}

// AddHandlers registers every route the service serves.
func AddHandlers(app *web.WebHandler, cfg Config) {
	tasksrepobridge.AddHttpRoutes(app.Group(""), tasksrepobridge.Config{
		Log:        cfg.Log,
		Repository: cfg.TaskRepository,
	})

	app.GET("/health", httpHealth)
	app.GET("/{$}", httpIndex(cfg.Build))
	app.HandleNotFound(httpNotFound)
}

type healthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (r healthResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}

func httpHealth(ctx context.Context, r *http.Request) web.Encoder {
	return healthResponse{
		Success:   true,
		Message:   "Task Management API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type indexResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (r indexResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}

func httpIndex(build string) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		return indexResponse{
			Success: true,
			Message: "Task Management API",
			Version: build,
			Endpoints: map[string]string{
				"GET /tasks":              "Get all tasks",
				"GET /tasks/{task_id}":    "Get a single task",
				"POST /tasks":             "Create a new task",
				"PATCH /tasks/{task_id}":  "Update task status",
				"DELETE /tasks/{task_id}": "Delete a task",
				"GET /health":             "Health check",
			},
		}
	}
}

func httpNotFound(ctx context.Context, r *http.Request) web.Encoder {
	return errs.Newf(errs.NotFound, "Route %s %s not found", r.Method, r.URL.Path)
}
