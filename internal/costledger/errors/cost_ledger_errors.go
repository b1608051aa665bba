package costledgererrors

import (
	"net/http"

	"brokmang/internal/shared/apperror"
)

var (
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Cost amount must not be negative",
		http.StatusBadRequest,
	)

	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown cost category",
		http.StatusBadRequest,
	)

	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cost entry not found",
		http.StatusNotFound,
	)

	// Entries are immutable after approval/rejection; only pending entries
	// may transition.
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Only pending cost entries can be approved or rejected",
		http.StatusConflict,
	)

	ErrDuplicateEntryNumber = apperror.New(
		apperror.CodeConflict,
		"Cost entry number already exists",
		http.StatusConflict,
	)
)
