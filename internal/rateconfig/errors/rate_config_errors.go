package rateconfigerrors

import (
	"net/http"

	"brokmang/internal/shared/apperror"
)

var (
	// ErrNoActiveConfig is recoverable: reporting falls back to default rates.
	ErrNoActiveConfig = apperror.New(
		apperror.CodeNotFound,
		"No rate configuration is effective at the requested date",
		http.StatusNotFound,
	)

	// ErrOverlappingWindow rejects a new config whose effective_from would
	// overlap the currently open window for the same key.
	ErrOverlappingWindow = apperror.New(
		apperror.CodeConflict,
		"Effective date overlaps the currently active configuration",
		http.StatusConflict,
	)

	ErrDuplicateOpenConfig = apperror.New(
		apperror.CodeConflict,
		"An active configuration already exists for this key and effective date",
		http.StatusConflict,
	)

	// ErrConfigIntegrity means two concurrently open rows exist for one key.
	// This is a data fault, surfaced distinctly from "no active config".
	ErrConfigIntegrity = apperror.New(
		apperror.CodeDataIntegrity,
		"Multiple active rate configurations found for one key",
		http.StatusInternalServerError,
	)

	ErrRateOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"Tax rates must be fractions between 0 and 1",
		http.StatusBadRequest,
	)

	ErrNegativeCommissionRate = apperror.New(
		apperror.CodeInvalidInput,
		"Commission rate per million must not be negative",
		http.StatusBadRequest,
	)
)
