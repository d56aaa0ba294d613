package services

import (
	"errors"

	"discount-system/vitrina/internal/providers"
)

// Batch-fatal source errors, raised by the tabular reader
var (
	ErrSourceNotFound = providers.ErrSourceNotFound
	ErrSourceFormat   = providers.ErrSourceFormat
)

// Row-level errors skip the row; ErrCommitFailure aborts the batch
var (
	ErrDiscountParse        = errors.New("discount value is not a number")
	ErrMissingRequiredField = errors.New("required field is empty")
	ErrEntityNotResolved    = errors.New("entity name was not resolved")
	ErrCommitFailure        = errors.New("failed to commit sync batch")
)

// Comment validation
var (
	ErrCommentEmpty   = errors.New("comment is empty")
	ErrCommentTooLong = errors.New("comment is too long")
)
