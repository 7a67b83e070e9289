package rfidapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork wraps transport failures reaching the service.
	ErrNetwork = errors.New("inventory service unreachable")

	// ErrNotFound is returned by Item when the service reports no such uid.
	ErrNotFound = errors.New("item not found")
)

// ServiceError is a non-2xx response from the service.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// IsStatus reports whether err is a ServiceError with the given status code.
func IsStatus(err error, code int) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == code
}

// errorBody is the error envelope of the service. Detail is a string for
// handled errors and a list of field errors for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newServiceError(status int, body []byte) *ServiceError {
	se := &ServiceError{StatusCode: status, Detail: fmt.Sprintf("HTTP error! status: %d", status)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return se
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		if detail != "" {
			se.Detail = detail
		}
		return se
	}

	var fields []fieldError
	if err := json.Unmarshal(eb.Detail, &fields); err == nil && len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if len(f.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", f.Loc[len(f.Loc)-1], f.Msg))
			} else {
				msgs = append(msgs, f.Msg)
			}
		}
		se.Detail = strings.Join(msgs, "; ")
	}
	return se
}
