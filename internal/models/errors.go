package models

import (
	"fmt"
	"net/http"
)

// ValidationError rejects user input before any upstream call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NetworkError is a failed upstream fetch: transport failure or non-2xx.
// Callers may retry.
type NetworkError struct {
	Source     string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d (%s)", e.Source, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return e.Source + ": request failed"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PartialDataError records a secondary fetch that failed while the primary
// result is still usable.
type PartialDataError struct {
	Part string
	Err  error
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("partial data: %s unavailable: %v", e.Part, e.Err)
}

func (e *PartialDataError) Unwrap() error { return e.Err }

// DataNote is the serialisable form of a PartialDataError attached to a report.
type DataNote struct {
	Part    string `json:"part"`
	Message string `json:"message"`
}

func NoteFrom(err *PartialDataError) DataNote {
	msg := "unavailable"
	if err.Err != nil {
		msg = err.Err.Error()
	}
	return DataNote{Part: err.Part, Message: msg}
}
