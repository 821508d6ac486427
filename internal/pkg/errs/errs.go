// Package errs provides the typed errors shared by the domain, application and adapter layers.
//
// Every error type follows the same shape:
//   - a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...) usable with errors.Is
//   - a struct carrying the parameter name and an optional cause
//   - constructors with and without cause
//   - Unwrap returning the sentinel, so callers classify errors without string matching
//
// The HTTP adapter maps the sentinels to status codes.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired    = errors.New("value is required")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrObjectNotFound     = errors.New("object not found")
	ErrObjectAlreadyExist = errors.New("object already exists")
	ErrVersionIsInvalid   = errors.New("version is invalid")
	ErrActionIsForbidden  = errors.New("action is forbidden")
)

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that fails a business rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %v, min value is %v, max value is %v",
		ErrValueIsOutOfRange, e.ParamName, sanitize(e.Value), sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a missing aggregate or record.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %v", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ObjectAlreadyExistError reports a uniqueness violation.
type ObjectAlreadyExistError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectAlreadyExistError(paramName string, id any) *ObjectAlreadyExistError {
	return &ObjectAlreadyExistError{ParamName: paramName, ID: id}
}

func NewObjectAlreadyExistErrorWithCause(paramName string, id any, cause error) *ObjectAlreadyExistError {
	return &ObjectAlreadyExistError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectAlreadyExistError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %v", ErrObjectAlreadyExist, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectAlreadyExistError) Unwrap() error {
	return ErrObjectAlreadyExist
}

// VersionIsInvalidError reports a lost optimistic-concurrency race: the row was
// changed by another writer between read and update.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName), e.Cause)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// ActionIsForbiddenError reports an actor acting on something it does not own.
type ActionIsForbiddenError struct {
	Reason string
}

func NewActionIsForbiddenError(reason string) *ActionIsForbiddenError {
	return &ActionIsForbiddenError{Reason: reason}
}

func (e *ActionIsForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrActionIsForbidden, e.Reason)
}

func (e *ActionIsForbiddenError) Unwrap() error {
	return ErrActionIsForbidden
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %s)", msg, cause)
}

// sanitize keeps user-supplied values on a single log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
