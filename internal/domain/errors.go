package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found or belongs to another tenant
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrCycleDetected is returned when a move would make a folder its own ancestor
	ErrCycleDetected = errors.New("cycle detected")

	// ErrOrderConflict signals a duplicate or gapped order group. It is never
	// repaired automatically.
	ErrOrderConflict = errors.New("order conflict")

	// ErrConcurrentModification means the row changed between read and write
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStorageQuotaExceeded is returned when a room would exceed its quota
	ErrStorageQuotaExceeded = errors.New("storage quota exceeded")

	// ErrTransient marks connection and deadlock failures that may be retried
	ErrTransient = errors.New("transient infrastructure failure")

	// ErrInvalidOperation is returned for requests that are well-formed but
	// not allowed in the current state (e.g. deleting the current version)
	ErrInvalidOperation = errors.New("invalid operation")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file, order)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CycleError reports the folder and the rejected target parent
type CycleError struct {
	FolderID    string
	NewParentID string
}

func (e *CycleError) Error() string {
	return "cannot move folder " + e.FolderID + " under its own descendant " + e.NewParentID
}

func (e *CycleError) StatusCode() int { return http.StatusUnprocessableEntity }

func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// QuotaError reports the room whose quota would be exceeded
type QuotaError struct {
	RoomID    string
	Quota     int64
	Used      int64
	Requested int64
}

func (e *QuotaError) Error() string {
	return "storage quota exceeded for room " + e.RoomID
}

func (e *QuotaError) StatusCode() int { return http.StatusInsufficientStorage }

func (e *QuotaError) Is(target error) bool { return target == ErrStorageQuotaExceeded }

// NewNotFound builds a NotFoundError for the given resource type and id
func NewNotFound(resource, id string) error {
	return &NotFoundError{Message: resource + " " + id + " not found"}
}

// NewValidation builds a ValidationError
func NewValidation(msg string) error {
	return &ValidationError{Message: msg}
}
