// Package tasksrepobridge exposes the task repository over HTTP.
package tasksrepobridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrazmi/taskdeck/bridge/scaffolding/errs"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/web"
)

// bridge provides HTTP handlers for Task operations.
type bridge struct {
	taskRepository *tasksrepo.Repository
}

// newBridge creates a new Task bridge
func newBridge(taskRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		taskRepository: taskRepository,
	}
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	tasks, err := b.taskRepository.List(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return tasksResponse{
		Success: true,
		Data:    tasks,
		Count:   len(tasks),
		Message: fmt.Sprintf("Retrieved %d tasks", len(tasks)),
	}
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.taskRepository.QueryByID(ctx, taskID)
	if err != nil {
		return taskError(taskID, err)
	}

	return taskResponse{Success: true, Data: task}
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input tasksrepo.CreateTask
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "invalid input: %s", err)
	}

	task, err := b.taskRepository.Create(ctx, input)
	if err != nil {
		return taskError("", err)
	}

	return taskResponse{
		Success: true,
		Data:    task,
		Message: "Task created successfully",
		status:  http.StatusCreated,
	}
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	var input tasksrepo.UpdateTask
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "invalid input: %s", err)
	}

	task, err := b.taskRepository.Update(ctx, taskID, input)
	if err != nil {
		return taskError(taskID, err)
	}

	return taskResponse{
		Success: true,
		Data:    task,
		Message: "Task status updated successfully",
	}
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	// Existence is checked up front so the caller gets a precise 404 rather
	// than a silent no-op.
	exists, err := b.taskRepository.Exists(ctx, taskID)
	if err != nil {
		return errs.New(errs.Internal, err)
	}
	if !exists {
		return errs.Newf(errs.NotFound, "task with id %s not found", taskID)
	}

	deleted, err := b.taskRepository.Delete(ctx, taskID)
	if err != nil {
		return errs.New(errs.Internal, err)
	}
	if !deleted {
		return errs.Newf(errs.Internal, "failed to delete task %s", taskID)
	}

	return messageResponse{
		Success: true,
		Message: fmt.Sprintf("Task with ID %s deleted successfully", taskID),
	}
}

// taskError maps repository errors onto coded responses.
func taskError(taskID string, err error) *errs.Error {
	var fieldErr *tasksrepo.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return errs.Newf(errs.InvalidArgument, "invalid input: %s", fieldErr)
	case errors.Is(err, tasksrepo.ErrNotFound):
		return errs.Newf(errs.NotFound, "task with id %s not found", taskID)
	default:
		return errs.New(errs.Internal, err)
	}
}
