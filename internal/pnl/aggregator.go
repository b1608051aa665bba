package pnl

import (
	"context"
	"errors"
	"time"

	"brokmang/internal/deal"
	"brokmang/internal/org"
	"brokmang/internal/rateconfig"
	rateconfigerrors "brokmang/internal/rateconfig/errors"
	"brokmang/internal/shared/period"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The aggregator depends on narrow source interfaces so each extractor can be
// faked independently; the rateconfig/costledger/salary services and the deal
// repository satisfy them as-is.

type TaxConfigSource interface {
	GetActiveTaxConfig(ctx context.Context, orgID string, asOf time.Time) (*rateconfig.TaxConfig, error)
}

type RevenueSource interface {
	ExtractRevenue(ctx context.Context, scope org.Scope, month period.Month) (deal.RevenueSummary, error)
}

type CostSource interface {
	SumByMonth(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (fixed, variable decimal.Decimal, err error)
}

type SalarySource interface {
	TotalForScope(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error)
}

//go:generate mockgen -source=aggregator.go -destination=mock/aggregator_mock.go -package=mock
type Aggregator interface {
	Compute(ctx context.Context, scope org.Scope, month period.Month) (Result, error)
}

type aggregator struct {
	taxes    TaxConfigSource
	revenue  RevenueSource
	costs    CostSource
	salaries SalarySource
	logger   *zap.Logger
}

func NewAggregator(
	taxes TaxConfigSource,
	revenue RevenueSource,
	costs CostSource,
	salaries SalarySource,
) Aggregator {
	return &aggregator{
		taxes:    taxes,
		revenue:  revenue,
		costs:    costs,
		salaries: salaries,
		logger:   zap.L().Named("pnl.aggregator"),
	}
}

// Compute derives the full P&L for one scope and month. The three extractor
// reads are independent and run concurrently; the first failure cancels the
// rest and no partial result is ever returned. The only masked error is the
// documented missing-config case, which falls back to default rates.
func (a *aggregator) Compute(ctx context.Context, scope org.Scope, month period.Month) (Result, error) {
	var (
		rates    rateconfig.TaxRates
		revenue  deal.RevenueSummary
		fixed    decimal.Decimal
		variable decimal.Decimal
		salaries decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cfg, err := a.taxes.GetActiveTaxConfig(gctx, scope.OrgID, month.End())
		if err != nil {
			if errors.Is(err, rateconfigerrors.ErrNoActiveConfig) {
				a.logger.Warn("no tax config effective for period, using defaults",
					zap.String("org_id", scope.OrgID),
					zap.String("period", month.String()),
				)
				rates = rateconfig.DefaultTaxRates()
				return nil
			}
			return err
		}
		rates = cfg.Rates()
		return nil
	})

	g.Go(func() error {
		var err error
		revenue, err = a.revenue.ExtractRevenue(gctx, scope, month)
		return err
	})

	g.Go(func() error {
		var err error
		fixed, variable, err = a.sumCosts(gctx, scope, month)
		return err
	})

	g.Go(func() error {
		var err error
		salaries, err = a.salaries.TotalForScope(gctx, scope, month)
		return err
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return buildResult(scope, month, rates, revenue, fixed, variable, salaries), nil
}

// The cost ledger only carries org and business-unit granularity; team and
// agent scopes have no directly attributable overhead.
func (a *aggregator) sumCosts(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, decimal.Decimal, error) {
	switch scope.Kind {
	case org.ScopeOrganization:
		return a.costs.SumByMonth(ctx, scope.OrgID, nil, month)
	case org.ScopeBusinessUnit:
		businessUnitID := scope.ID
		return a.costs.SumByMonth(ctx, scope.OrgID, &businessUnitID, month)
	default:
		return decimal.Zero, decimal.Zero, nil
	}
}

// buildResult applies the fixed P&L contract:
//
//	withholding  = gross * withholdingRate          (on gross, not margin)
//	vat          = gross * vatRate                  (on gross, not margin)
//	margin       = gross - variable - commissions
//	preTax       = margin - fixed - salaries - withholding - vat
//	incomeTax    = preTax * incomeTaxRate, floored at zero when preTax <= 0
//	net          = preTax - incomeTax
func buildResult(
	scope org.Scope,
	month period.Month,
	rates rateconfig.TaxRates,
	revenue deal.RevenueSummary,
	fixed, variable, salaries decimal.Decimal,
) Result {
	withholding := revenue.GrossRevenue.Mul(rates.Withholding)
	vat := revenue.GrossRevenue.Mul(rates.VAT)

	margin := revenue.GrossRevenue.Sub(variable).Sub(revenue.TotalCommission)
	preTax := margin.Sub(fixed).Sub(salaries).Sub(withholding).Sub(vat)

	incomeTax := decimal.Zero
	if preTax.IsPositive() {
		incomeTax = preTax.Mul(rates.IncomeTax)
	}

	return Result{
		ScopeKind:             scope.Kind,
		ScopeID:               scope.ID,
		Period:                month.String(),
		GrossRevenue:          revenue.GrossRevenue,
		WonDealCount:          revenue.WonDealCount,
		FixedCosts:            fixed,
		VariableCosts:         variable,
		TotalSalaries:         salaries,
		TotalCommissionsPaid:  revenue.TotalCommission,
		WithholdingRate:       rates.Withholding,
		VATRate:               rates.VAT,
		IncomeTaxRate:         rates.IncomeTax,
		WithholdingTax:        withholding,
		VAT:                   vat,
		ContributionMargin:    margin,
		ProfitBeforeIncomeTax: preTax,
		IncomeTax:             incomeTax,
		NetProfit:             preTax.Sub(incomeTax),
	}
}
