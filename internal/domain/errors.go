package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError reports user input that cannot be accepted. Fields lists
// every offending field when more than one is missing.
type ValidationError struct {
	Field  string
	Fields []string
	Msg    string
	Err    error
}

func (e ValidationError) Error() string {
	field := e.Field
	if field == "" && len(e.Fields) > 0 {
		field = strings.Join(e.Fields, ", ")
	}
	if e.Msg != "" && field != "" {
		return fmt.Sprintf("%s: %s", field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if field != "" {
		return fmt.Sprintf("invalid %s", field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// UnauthorizedError means the caller could not be authenticated.
type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

// NotVerifiedError is returned by the availability gate for drivers without
// an approved verification record.
type NotVerifiedError struct {
	DriverID int64
}

func (e NotVerifiedError) Error() string {
	return fmt.Sprintf("driver %d is not verified", e.DriverID)
}

// CorruptRecordError marks a persisted record that cannot be decoded, either
// because the payload is malformed or its schema version is unsupported.
type CorruptRecordError struct {
	Record  string
	Version int
	Err     error
}

func (e CorruptRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s record corrupt (version %d): %v", e.Record, e.Version, e.Err)
	}
	return fmt.Sprintf("%s record corrupt (version %d)", e.Record, e.Version)
}

func (e CorruptRecordError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsNotVerified(err error) bool {
	var target NotVerifiedError
	return errors.As(err, &target)
}

func IsCorruptRecord(err error) bool {
	var target CorruptRecordError
	return errors.As(err, &target)
}
