package salary

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brokmang/internal/org"
	"brokmang/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockOpenByAgent(ctx context.Context, orgID, agentID string) ([]SalaryRecord, error)
	Close(ctx context.Context, id string, closeAt time.Time) error
	Create(ctx context.Context, record *SalaryRecord) error
	ListByAgent(ctx context.Context, orgID, agentID string) ([]SalaryRecord, error)
	SumActiveForScope(ctx context.Context, scope org.Scope, asOf time.Time) (decimal.Decimal, error)
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

// LockOpenByAgent selects the agent's open record FOR UPDATE inside the
// caller's transaction, serializing concurrent salary changes per agent.
func (r *repository) LockOpenByAgent(ctx context.Context, orgID, agentID string) ([]SalaryRecord, error) {
	query := `
SELECT id, org_id, agent_id, role, monthly_amount, currency,
       effective_from, effective_to, created_at, updated_at
FROM salary_records
WHERE org_id = $1 AND agent_id = $2 AND effective_to IS NULL
FOR UPDATE
`
	rows, err := r.querier().QueryContext(ctx, query, orgID, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SalaryRecord
	for rows.Next() {
		var rec SalaryRecord
		if err := rows.Scan(
			&rec.ID, &rec.OrgID, &rec.AgentID, &rec.Role, &rec.MonthlyAmount,
			&rec.Currency, &rec.EffectiveFrom, &rec.EffectiveTo,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Close(ctx context.Context, id string, closeAt time.Time) error {
	query := `UPDATE salary_records SET effective_to = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, id, closeAt)
	return err
}

func (r *repository) Create(ctx context.Context, record *SalaryRecord) error {
	query := `
INSERT INTO salary_records (
	id, org_id, agent_id, role, monthly_amount, currency,
	effective_from, effective_to, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		record.ID, record.OrgID, record.AgentID, record.Role,
		record.MonthlyAmount, record.Currency, record.EffectiveFrom,
	)
	return err
}

func (r *repository) ListByAgent(ctx context.Context, orgID, agentID string) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("agent_id = ?", agentID).
		Order("effective_from DESC").
		Find(&records).Error
	return records, err
}

// SumActiveForScope is the payroll extraction query: for every agent in the
// scope, the record active at asOf (period end), summed. Agents with no
// active record simply do not join.
func (r *repository) SumActiveForScope(ctx context.Context, scope org.Scope, asOf time.Time) (decimal.Decimal, error) {
	scopeClause, scopeArg, err := scopeFilter(scope)
	if err != nil {
		return decimal.Zero, err
	}

	query := fmt.Sprintf(`
SELECT COALESCE(SUM(s.monthly_amount), 0)
FROM salary_records s
JOIN agents a ON a.id = s.agent_id
WHERE s.org_id = ?
	AND s.effective_from <= ?
	AND (s.effective_to IS NULL OR s.effective_to > ?)
	AND %s
`, scopeClause)

	var total decimal.Decimal
	err = r.db.WithContext(ctx).
		Raw(query, scope.OrgID, asOf, asOf, scopeArg).
		Scan(&total).Error
	return total, err
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

func scopeFilter(scope org.Scope) (clause string, arg string, err error) {
	switch scope.Kind {
	case org.ScopeOrganization:
		return "a.org_id = ?", scope.ID, nil
	case org.ScopeBusinessUnit:
		return "a.business_unit_id = ?", scope.ID, nil
	case org.ScopeTeam:
		return "a.team_id = ?", scope.ID, nil
	case org.ScopeAgent:
		return "a.id = ?", scope.ID, nil
	default:
		return "", "", fmt.Errorf("unknown scope kind %q", scope.Kind)
	}
}
