package config

import (
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

// Repositories holds the repositories this instance of taskdeck serves.
type Repositories struct {
	Tasks *tasksrepo.Repository
}

// Taskdeck is the overall configuration for the taskdeck application.
type Taskdeck struct {
	Build  string
	Logger *logger.Logger

	Repositories Repositories
	Telemetry    telemetry.Telemetry
}
