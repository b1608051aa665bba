package rateconfig

import (
	"context"
	"database/sql"
	"time"

	"brokmang/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rate_config_repo.go -destination=mock/rate_config_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindTaxAsOf(ctx context.Context, orgID string, asOf time.Time) ([]TaxConfig, error)
	LockOpenTax(ctx context.Context, orgID string) ([]TaxConfig, error)
	CloseTax(ctx context.Context, id string, closeAt time.Time) error
	CreateTax(ctx context.Context, cfg *TaxConfig) error
	ListTaxByOrg(ctx context.Context, orgID string) ([]TaxConfig, error)

	FindCommissionAsOf(ctx context.Context, orgID, role string, asOf time.Time) ([]CommissionConfig, error)
	LockOpenCommission(ctx context.Context, orgID, role string) ([]CommissionConfig, error)
	CloseCommission(ctx context.Context, id string, closeAt time.Time) error
	CreateCommission(ctx context.Context, cfg *CommissionConfig) error
	ListCommissionByOrg(ctx context.Context, orgID string) ([]CommissionConfig, error)
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

// Effective window: effective_from <= asOf < effective_to, open-ended when
// effective_to is NULL. Exactly one row should match; callers treat more than
// one as a data-integrity fault.
const effectiveWindow = "effective_from <= ? AND (effective_to IS NULL OR effective_to > ?)"

func (r *repository) FindTaxAsOf(ctx context.Context, orgID string, asOf time.Time) ([]TaxConfig, error) {
	var configs []TaxConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where(effectiveWindow, asOf, asOf).
		Order("effective_from DESC").
		Find(&configs).Error
	return configs, err
}

// LockOpenTax selects the open rows (effective_to IS NULL) FOR UPDATE. It must
// run inside the caller's transaction: the row lock is the single-writer guard
// that keeps two concurrent SetTaxConfig calls from both opening a row.
func (r *repository) LockOpenTax(ctx context.Context, orgID string) ([]TaxConfig, error) {
	query := `
SELECT id, org_id, withholding_rate, vat_rate, income_tax_rate,
       effective_from, effective_to, notes, created_by, created_at, updated_at
FROM tax_configs
WHERE org_id = $1 AND effective_to IS NULL
FOR UPDATE
`
	rows, err := r.querier().QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []TaxConfig
	for rows.Next() {
		var c TaxConfig
		if err := rows.Scan(
			&c.ID, &c.OrgID, &c.WithholdingRate, &c.VATRate, &c.IncomeTaxRate,
			&c.EffectiveFrom, &c.EffectiveTo, &c.Notes, &c.CreatedBy,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *repository) CloseTax(ctx context.Context, id string, closeAt time.Time) error {
	query := `UPDATE tax_configs SET effective_to = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, id, closeAt)
	return err
}

func (r *repository) CreateTax(ctx context.Context, cfg *TaxConfig) error {
	query := `
INSERT INTO tax_configs (
	id, org_id, withholding_rate, vat_rate, income_tax_rate,
	effective_from, effective_to, notes, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		cfg.ID, cfg.OrgID, cfg.WithholdingRate, cfg.VATRate, cfg.IncomeTaxRate,
		cfg.EffectiveFrom, cfg.Notes, cfg.CreatedBy,
	)
	return err
}

func (r *repository) ListTaxByOrg(ctx context.Context, orgID string) ([]TaxConfig, error) {
	var configs []TaxConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("effective_from DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) FindCommissionAsOf(ctx context.Context, orgID, role string, asOf time.Time) ([]CommissionConfig, error) {
	var configs []CommissionConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("role = ?", role).
		Where(effectiveWindow, asOf, asOf).
		Order("effective_from DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) LockOpenCommission(ctx context.Context, orgID, role string) ([]CommissionConfig, error) {
	query := `
SELECT id, org_id, role, rate_per_million,
       effective_from, effective_to, notes, created_by, created_at, updated_at
FROM commission_configs
WHERE org_id = $1 AND role = $2 AND effective_to IS NULL
FOR UPDATE
`
	rows, err := r.querier().QueryContext(ctx, query, orgID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []CommissionConfig
	for rows.Next() {
		var c CommissionConfig
		if err := rows.Scan(
			&c.ID, &c.OrgID, &c.Role, &c.RatePerMillion,
			&c.EffectiveFrom, &c.EffectiveTo, &c.Notes, &c.CreatedBy,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *repository) CloseCommission(ctx context.Context, id string, closeAt time.Time) error {
	query := `UPDATE commission_configs SET effective_to = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, id, closeAt)
	return err
}

func (r *repository) CreateCommission(ctx context.Context, cfg *CommissionConfig) error {
	query := `
INSERT INTO commission_configs (
	id, org_id, role, rate_per_million,
	effective_from, effective_to, notes, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		cfg.ID, cfg.OrgID, cfg.Role, cfg.RatePerMillion,
		cfg.EffectiveFrom, cfg.Notes, cfg.CreatedBy,
	)
	return err
}

func (r *repository) ListCommissionByOrg(ctx context.Context, orgID string) ([]CommissionConfig, error) {
	var configs []CommissionConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("role ASC, effective_from DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) querier() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
