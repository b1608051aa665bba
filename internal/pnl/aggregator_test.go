package pnl_test

import (
	"context"
	"testing"
	"time"

	"brokmang/internal/deal"
	"brokmang/internal/org"
	"brokmang/internal/pnl"
	"brokmang/internal/rateconfig"
	rateconfigerrors "brokmang/internal/rateconfig/errors"
	"brokmang/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeTaxSource struct {
	fn func(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error)
}

func (f *fakeTaxSource) GetActiveTaxConfig(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error) {
	return f.fn(ctx, orgID, asOf)
}

type fakeRevenueSource struct {
	fn func(ctx context.Context, scope org.Scope, month period.Month) (deal.RevenueSummary, error)
}

func (f *fakeRevenueSource) ExtractRevenue(ctx context.Context, scope org.Scope, month period.Month) (deal.RevenueSummary, error) {
	return f.fn(ctx, scope, month)
}

type fakeCostSource struct {
	fn func(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error)
}

func (f *fakeCostSource) SumByMonth(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
	return f.fn(ctx, orgID, businessUnitID, month)
}

type fakeSalarySource struct {
	fn func(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error)
}

func (f *fakeSalarySource) TotalForScope(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error) {
	return f.fn(ctx, scope, month)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func staticTaxConfig(withholding, vat, incomeTax string) *fakeTaxSource {
	return &fakeTaxSource{fn: func(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error) {
		return &rateconfig.TaxConfig{
			ID:              uuid.New(),
			WithholdingRate: dec(withholding),
			VATRate:         dec(vat),
			IncomeTaxRate:   dec(incomeTax),
		}, nil
	}}
}

func staticRevenue(gross, commission string, deals int64) *fakeRevenueSource {
	return &fakeRevenueSource{fn: func(ctx context.Context, scope org.Scope, month period.Month) (deal.RevenueSummary, error) {
		return deal.RevenueSummary{
			GrossRevenue:    dec(gross),
			TotalCommission: dec(commission),
			WonDealCount:    deals,
		}, nil
	}}
}

func staticCosts(fixed, variable string) *fakeCostSource {
	return &fakeCostSource{fn: func(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
		return dec(fixed), dec(variable), nil
	}}
}

func staticSalaries(total string) *fakeSalarySource {
	return &fakeSalarySource{fn: func(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error) {
		return dec(total), nil
	}}
}

func TestAggregator_Compute(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	scope := org.OrganizationScope(orgID)
	month, err := period.Parse("2025-06")
	assert.NoError(t, err)

	t.Run("full statement for an active month", func(t *testing.T) {
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0"),
			staticRevenue("1000000", "30000", 4),
			staticCosts("100000", "0"),
			staticSalaries("150000"),
		)

		result, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)

		assert.Equal(t, org.ScopeOrganization, result.ScopeKind)
		assert.Equal(t, "2025-06", result.Period)
		assert.Equal(t, int64(4), result.WonDealCount)

		assert.True(t, result.WithholdingTax.Equal(dec("50000")), "withholding: %s", result.WithholdingTax)
		assert.True(t, result.VAT.Equal(dec("140000")), "vat: %s", result.VAT)
		assert.True(t, result.ContributionMargin.Equal(dec("970000")), "margin: %s", result.ContributionMargin)
		assert.True(t, result.ProfitBeforeIncomeTax.Equal(dec("530000")), "pre-tax: %s", result.ProfitBeforeIncomeTax)
		assert.True(t, result.IncomeTax.Equal(decimal.Zero))
		assert.True(t, result.NetProfit.Equal(dec("530000")), "net: %s", result.NetProfit)
	})

	t.Run("withholding and vat apply to gross, not margin", func(t *testing.T) {
		// High variable costs shrink the margin; the revenue taxes must not shrink with it.
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0"),
			staticRevenue("1000000", "0", 1),
			staticCosts("0", "900000"),
			staticSalaries("0"),
		)

		result, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.True(t, result.WithholdingTax.Equal(dec("50000")))
		assert.True(t, result.VAT.Equal(dec("140000")))
		assert.True(t, result.ContributionMargin.Equal(dec("100000")))
	})

	t.Run("income tax applies only to positive pre-tax profit", func(t *testing.T) {
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0.225"),
			staticRevenue("100000", "0", 1),
			staticCosts("500000", "0"),
			staticSalaries("0"),
		)

		result, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.True(t, result.ProfitBeforeIncomeTax.IsNegative())
		assert.True(t, result.IncomeTax.IsZero(), "no income tax on a loss")
		assert.True(t, result.NetProfit.Equal(result.ProfitBeforeIncomeTax))
	})

	t.Run("zero-activity month is salaries and fixed costs in the red", func(t *testing.T) {
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0.225"),
			staticRevenue("0", "0", 0),
			staticCosts("20000", "0"),
			staticSalaries("80000"),
		)

		result, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.True(t, result.WithholdingTax.IsZero())
		assert.True(t, result.VAT.IsZero())
		assert.True(t, result.NetProfit.Equal(dec("-100000")), "net: %s", result.NetProfit)
	})

	t.Run("missing tax config falls back to default rates", func(t *testing.T) {
		taxes := &fakeTaxSource{fn: func(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error) {
			return nil, rateconfigerrors.ErrNoActiveConfig
		}}
		agg := pnl.NewAggregator(
			taxes,
			staticRevenue("1000000", "0", 1),
			staticCosts("0", "0"),
			staticSalaries("0"),
		)

		result, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.True(t, result.WithholdingRate.Equal(dec("0.05")))
		assert.True(t, result.VATRate.Equal(dec("0.14")))
		assert.True(t, result.IncomeTaxRate.IsZero())
	})

	t.Run("integrity faults are not masked by the default fallback", func(t *testing.T) {
		taxes := &fakeTaxSource{fn: func(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error) {
			return nil, rateconfigerrors.ErrConfigIntegrity
		}}
		agg := pnl.NewAggregator(
			taxes,
			staticRevenue("1000000", "0", 1),
			staticCosts("0", "0"),
			staticSalaries("0"),
		)

		_, err := agg.Compute(ctx, scope, month)
		assert.ErrorIs(t, err, rateconfigerrors.ErrConfigIntegrity)
	})

	t.Run("rates are resolved at the end of the month", func(t *testing.T) {
		var gotAsOf time.Time
		taxes := &fakeTaxSource{fn: func(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error) {
			gotAsOf = asOf
			return &rateconfig.TaxConfig{WithholdingRate: dec("0.05"), VATRate: dec("0.14"), IncomeTaxRate: decimal.Zero}, nil
		}}
		agg := pnl.NewAggregator(taxes,
			staticRevenue("0", "0", 0), staticCosts("0", "0"), staticSalaries("0"))

		_, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.Equal(t, "2025-06-30", gotAsOf.Format("2006-01-02"))
	})

	t.Run("team scope carries no ledger overhead", func(t *testing.T) {
		costsQueried := false
		costs := &fakeCostSource{fn: func(ctx context.Context, orgID string, buID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
			costsQueried = true
			return decimal.Zero, decimal.Zero, nil
		}}
		teamScope := org.Scope{Kind: org.ScopeTeam, OrgID: orgID, ID: uuid.New().String()}

		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0"),
			staticRevenue("500000", "10000", 2),
			costs,
			staticSalaries("60000"),
		)

		result, err := agg.Compute(ctx, teamScope, month)
		assert.NoError(t, err)
		assert.False(t, costsQueried, "cost ledger has no team granularity")
		assert.True(t, result.FixedCosts.IsZero())
		assert.True(t, result.VariableCosts.IsZero())
	})

	t.Run("business unit scope narrows the cost query", func(t *testing.T) {
		buID := uuid.New().String()
		var gotBU *string
		costs := &fakeCostSource{fn: func(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
			gotBU = businessUnitID
			return dec("10000"), dec("5000"), nil
		}}

		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0"),
			staticRevenue("0", "0", 0),
			costs,
			staticSalaries("0"),
		)

		_, err := agg.Compute(ctx, org.Scope{Kind: org.ScopeBusinessUnit, OrgID: orgID, ID: buID}, month)
		assert.NoError(t, err)
		assert.NotNil(t, gotBU)
		assert.Equal(t, buID, *gotBU)
	})

	t.Run("an extractor failure fails the whole statement", func(t *testing.T) {
		revenue := &fakeRevenueSource{fn: func(ctx context.Context, scope org.Scope, month period.Month) (deal.RevenueSummary, error) {
			return deal.RevenueSummary{}, assert.AnError
		}}
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0"),
			revenue,
			staticCosts("0", "0"),
			staticSalaries("0"),
		)

		_, err := agg.Compute(ctx, scope, month)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("repeated computation over the same inputs is identical", func(t *testing.T) {
		agg := pnl.NewAggregator(
			staticTaxConfig("0.05", "0.14", "0.225"),
			staticRevenue("750000", "22500", 3),
			staticCosts("40000", "15000"),
			staticSalaries("120000"),
		)

		first, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		second, err := agg.Compute(ctx, scope, month)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
		assert.True(t, first.NetProfit.Equal(first.ProfitBeforeIncomeTax.Sub(first.IncomeTax)))
	})
}
