package tasksrepobridge

import (
	"encoding/json"
	"net/http"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
)

// Every response carries the API envelope: success, data (and count for
// lists) on the happy path; error and message on failures (see errs.Error).

type tasksResponse struct {
	Success bool             `json:"success"`
	Data    []tasksrepo.Task `json:"data"`
	Count   int              `json:"count"`
	Message string           `json:"message,omitempty"`
}

func (r tasksResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}

type taskResponse struct {
	Success bool           `json:"success"`
	Data    tasksrepo.Task `json:"data"`
	Message string         `json:"message,omitempty"`

	status int
}

func (r taskResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}

func (r taskResponse) HTTPStatus() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (r messageResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json; charset=utf-8", err
}
