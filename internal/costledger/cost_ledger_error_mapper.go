package costledger

import (
	"errors"
	"strings"

	costledgererrors "brokmang/internal/costledger/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return costledgererrors.ErrEntryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "entry_number") {
			return costledgererrors.ErrDuplicateEntryNumber
		}
	}

	return err
}
