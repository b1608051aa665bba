package rateconfig

import (
	"errors"
	"strings"

	rateconfigerrors "brokmang/internal/rateconfig/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// The partial unique indexes uq_tax_config_open / uq_commission_config_open
// (one open row per key) back the single-active-config invariant at the
// database level; a violation means a concurrent writer slipped past the lock.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" &&
			(pgErr.ConstraintName == "uq_tax_config_open" || pgErr.ConstraintName == "uq_commission_config_open") {
			return rateconfigerrors.ErrDuplicateOpenConfig
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") &&
		(strings.Contains(errMsg, "uq_tax_config_open") || strings.Contains(errMsg, "uq_commission_config_open")) {
		return rateconfigerrors.ErrDuplicateOpenConfig
	}

	return err
}
