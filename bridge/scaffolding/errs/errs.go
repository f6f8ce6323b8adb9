// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents a code for an error.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec.value]
}

var (
	OK              = ErrCode{value: 0}
	InvalidArgument = ErrCode{value: 1}
	NotFound        = ErrCode{value: 2}
	Internal        = ErrCode{value: 3}
	Unavailable     = ErrCode{value: 4}
	InternalOnlyLog = ErrCode{value: 5}
)

var codeNames = map[int]string{
	0: "ok",
	1: "Validation Error",
	2: "Not Found",
	3: "Internal Server Error",
	4: "Service Unavailable",
	5: "Internal Server Error",
}

var httpStatus = map[int]int{
	0: http.StatusOK,
	1: http.StatusBadRequest,
	2: http.StatusNotFound,
	3: http.StatusInternalServerError,
	4: http.StatusServiceUnavailable,
	5: http.StatusInternalServerError,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode `json:"-"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the web Encoder interface, producing the API's failure
// envelope: {success:false, error:<category>, message:<detail>}.
func (e *Error) Encode() ([]byte, string, error) {
	payload := struct {
		Success bool   `json:"success"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}{
		Success: false,
		Err:     e.Code.String(),
		Message: e.Message,
	}

	data, err := json.Marshal(payload)
	return data, "application/json", err
}

// HTTPStatus implements the web HTTPStatus interface so the error code is
// translated to an HTTP status code.
func (e *Error) HTTPStatus() int {
	status, ok := httpStatus[e.Code.value]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// IsError tests the concrete error is of the Error type.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the Error pointer from the error interface.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return &Error{}
	}
	return er
}
