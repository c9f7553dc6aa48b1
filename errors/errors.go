/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an item is not found
	ErrNotFound = errors.New("item not found")

	// ErrAlreadyExists is returned when inserting an item whose key is already taken
	ErrAlreadyExists = errors.New("item already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrRequestFailed is returned when the remote service rejects a request
	ErrRequestFailed = errors.New("request failed")
)

// NotFoundError represents an error when an item is not found in a base
type NotFoundError struct {
	Base string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q not found in base %q", e.Key, e.Base)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an item key is already taken
type AlreadyExistsError struct {
	Base string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("item %q already exists in base %q", e.Key, e.Base)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RequestError represents a non-success response from the remote service
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed with status %d", e.Op, e.StatusCode)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(base, key string) error {
	return &NotFoundError{Base: base, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(base, key string) error {
	return &AlreadyExistsError{Base: base, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewRequestError creates a new RequestError
func NewRequestError(op string, statusCode int, body string) error {
	return &RequestError{Op: op, StatusCode: statusCode, Body: body}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRequestFailed checks if an error is a failed remote request
func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

// StatusCode extracts the HTTP status carried by a RequestError, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
