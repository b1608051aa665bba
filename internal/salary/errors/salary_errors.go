package salaryerrors

import (
	"net/http"

	"brokmang/internal/shared/apperror"
)

var (
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Monthly salary must not be negative",
		http.StatusBadRequest,
	)

	ErrOverlappingWindow = apperror.New(
		apperror.CodeConflict,
		"Effective date overlaps the agent's current salary record",
		http.StatusConflict,
	)

	ErrSalaryIntegrity = apperror.New(
		apperror.CodeDataIntegrity,
		"Multiple open salary records found for one agent",
		http.StatusInternalServerError,
	)
)
