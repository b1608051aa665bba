package report

import (
	"errors"

	reporterrors "brokmang/internal/report/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reporterrors.ErrOrganizationNotFound
	}
	return err
}
