package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// It is also returned for resources owned by another company so that
// cross-tenant existence is never leaked.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvariant indicates that an accounting invariant would be violated
// (unbalanced entry, out-of-sequence close, negative depreciation, ...).
var ErrInvariant = errors.New("accounting invariant violation")

// ErrConflict indicates an operation on an entity whose state forbids it
// (locked journal, closed period, non-active asset).
var ErrConflict = errors.New("state conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an infrastructure-level failure; the surrounding
// transaction has been rolled back.
var ErrInternal = errors.New("internal error")
