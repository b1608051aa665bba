package costledger

import (
	"context"
	"database/sql"
	"time"

	"brokmang/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=cost_ledger_repo.go -destination=mock/cost_ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *CostEntry) error
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*CostEntry, error)
	ListByMonth(ctx context.Context, orgID string, businessUnitID *string, month time.Time) ([]CostEntry, error)
	SumByMonth(ctx context.Context, orgID string, businessUnitID *string, month time.Time) (fixed, variable decimal.Decimal, err error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	sqlDB, _ := db.DB()
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db:    r.db,
		sqlDB: r.sqlDB,
		tx:    tx,
	}
}

func (r *repository) Create(ctx context.Context, entry *CostEntry) error {
	query := `
INSERT INTO cost_entries (
	id, org_id, business_unit_id, entry_number, category, amount, cost_month,
	is_fixed_cost, is_recurring, status, created_by, receipt_ref, notes,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		entry.ID, entry.OrgID, entry.BusinessUnitID, entry.EntryNumber,
		entry.Category, entry.Amount, entry.CostMonth,
		entry.IsFixedCost, entry.IsRecurring, entry.Status,
		entry.CreatedBy, entry.ReceiptRef, entry.Notes,
	)
	return err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*CostEntry, error) {
	var entry CostEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&entry, "id = ?", id).Error
	return &entry, err
}

// ListByMonth matches cost_month by exact equality; month must already be
// normalized to the first day.
func (r *repository) ListByMonth(
	ctx context.Context,
	orgID string,
	businessUnitID *string,
	month time.Time,
) ([]CostEntry, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("cost_month = ?", month)

	if businessUnitID != nil {
		q = q.Where("business_unit_id = ?", *businessUnitID)
	}

	var entries []CostEntry
	err := q.Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *repository) SumByMonth(
	ctx context.Context,
	orgID string,
	businessUnitID *string,
	month time.Time,
) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Fixed    decimal.Decimal
		Variable decimal.Decimal
	}

	q := r.db.WithContext(ctx).
		Model(&CostEntry{}).
		Select(`
			COALESCE(SUM(amount) FILTER (WHERE is_fixed_cost), 0) AS fixed,
			COALESCE(SUM(amount) FILTER (WHERE NOT is_fixed_cost), 0) AS variable`).
		Scopes(tenant.Scope(orgID)).
		Where("cost_month = ?", month)

	if businessUnitID != nil {
		q = q.Where("business_unit_id = ?", *businessUnitID)
	}

	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Fixed, row.Variable, nil
}

// UpdateStatus transitions an entry out of PENDING. The status predicate makes
// the update atomic: a concurrent transition that got there first leaves zero
// rows for this one.
func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&CostEntry{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
