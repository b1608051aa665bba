package errors

import (
	"net/http"

	"brokmang/internal/shared/apperror"
)

var (
	ErrOrganizationNotFound = apperror.New(apperror.CodeNotFound,
		"Organization not found", http.StatusNotFound)
)
