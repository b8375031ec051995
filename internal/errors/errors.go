package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is a machine-readable error category returned to API clients
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindPermission Kind = "permission"
	KindDuplicate  Kind = "duplicate"
	KindBusiness   Kind = "business"
	KindInternal   Kind = "internal"
)

type payload struct {
	Kind    Kind   `json:"kind"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
}

// BusinessErr is raised when request is well-formed but violates business rule
type BusinessErr struct {
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&payload{Kind: KindBusiness, Target: e.target, Message: e.message})
}

// NewBusinessErr builds BusinessErr
func NewBusinessErr(target string, msg string) *BusinessErr {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}

// ValidationErr is raised on malformed or out-of-range input
type ValidationErr struct {
	field   string
	message string
}

func (e *ValidationErr) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.field, e.message)
}

// Field returns name of the invalid field
func (e *ValidationErr) Field() string {
	return e.field
}

func (e *ValidationErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&payload{Kind: KindValidation, Target: e.field, Message: e.Error()})
}

// NewValidationErr builds ValidationErr
func NewValidationErr(field string, msg string) *ValidationErr {
	return &ValidationErr{field: field, message: msg}
}

// EntryNotFoundErr is raised when referenced entry doesn't exist
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func (e *EntryNotFoundErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&payload{Kind: KindNotFound, Message: e.message})
}

// NewEntryNotFoundErr builds EntryNotFoundErr
func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// PermissionErr is raised when actor role is insufficient for the requested change
type PermissionErr struct {
	action  string
	message string
}

func (e *PermissionErr) Error() string {
	return e.message
}

// Action returns the rejected action
func (e *PermissionErr) Action() string {
	return e.action
}

func (e *PermissionErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&payload{Kind: KindPermission, Target: e.action, Message: e.message})
}

// NewPermissionErr builds PermissionErr
func NewPermissionErr(action string, msg string) *PermissionErr {
	return &PermissionErr{action: action, message: msg}
}

// DuplicateErr is raised when uniqueness within a tenant is violated
type DuplicateErr struct {
	field string
	value string
}

func (e *DuplicateErr) Error() string {
	return fmt.Sprintf("duplicate customer found with %s: %s", e.field, e.value)
}

// Field returns name of the duplicated field
func (e *DuplicateErr) Field() string {
	return e.field
}

func (e *DuplicateErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&payload{Kind: KindDuplicate, Target: e.field, Message: e.Error()})
}

// NewDuplicateErr builds DuplicateErr
func NewDuplicateErr(field string, value string) *DuplicateErr {
	return &DuplicateErr{field: field, value: value}
}

// KindOf reports the category of err, KindInternal for unknown errors
func KindOf(err error) Kind {
	var (
		validationErr *ValidationErr
		notFoundErr   *EntryNotFoundErr
		permissionErr *PermissionErr
		duplicateErr  *DuplicateErr
		businessErr   *BusinessErr
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &permissionErr):
		return KindPermission
	case errors.As(err, &duplicateErr):
		return KindDuplicate
	case errors.As(err, &businessErr):
		return KindBusiness
	default:
		return KindInternal
	}
}
