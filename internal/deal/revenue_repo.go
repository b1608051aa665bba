package deal

import (
	"context"
	"fmt"

	"brokmang/internal/org"
	"brokmang/internal/shared/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueSummary is what a period of won deals contributes to a P&L: the two
// sums are independent, a deal with zero commission still counts as revenue.
type RevenueSummary struct {
	GrossRevenue    decimal.Decimal
	TotalCommission decimal.Decimal
	WonDealCount    int64
}

//go:generate mockgen -source=revenue_repo.go -destination=mock/revenue_repo_mock.go -package=mock
type Repository interface {
	ExtractRevenue(ctx context.Context, scope org.Scope, month period.Month) (RevenueSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ExtractRevenue sums won deals closed within the month for the scope. Scope
// filters are transitive: an organization scope matches every deal beneath it.
func (r *repository) ExtractRevenue(
	ctx context.Context,
	scope org.Scope,
	month period.Month,
) (RevenueSummary, error) {
	var row struct {
		GrossRevenue    decimal.Decimal
		TotalCommission decimal.Decimal
		WonDealCount    int64
	}

	q := r.db.WithContext(ctx).
		Model(&Deal{}).
		Select(`
			COALESCE(SUM(deal_value), 0) AS gross_revenue,
			COALESCE(SUM(commission_value), 0) AS total_commission,
			COUNT(*) AS won_deal_count`).
		Where("org_id = ?", scope.OrgID).
		Where("stage = ?", StageWon).
		Where("closed_date >= ? AND closed_date < ?", month.Start(), month.NextStart())

	switch scope.Kind {
	case org.ScopeOrganization:
		// org filter already applied
	case org.ScopeBusinessUnit:
		q = q.Where("business_unit_id = ?", scope.ID)
	case org.ScopeTeam:
		q = q.Where("team_id = ?", scope.ID)
	case org.ScopeAgent:
		q = q.Where("agent_id = ?", scope.ID)
	default:
		return RevenueSummary{}, fmt.Errorf("unknown scope kind %q", scope.Kind)
	}

	if err := q.Scan(&row).Error; err != nil {
		return RevenueSummary{}, err
	}

	return RevenueSummary{
		GrossRevenue:    row.GrossRevenue,
		TotalCommission: row.TotalCommission,
		WonDealCount:    row.WonDealCount,
	}, nil
}
