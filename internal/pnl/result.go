package pnl

import (
	"brokmang/internal/org"

	"github.com/shopspring/decimal"
)

// Result is a P&L statement for one scope and one month. It is derived fresh
// on every computation and never mutated after being returned; callers wanting
// a newer number compute again.
type Result struct {
	ScopeKind org.ScopeKind `json:"scope_kind"`
	ScopeID   string        `json:"scope_id"`
	Period    string        `json:"period"`

	GrossRevenue         decimal.Decimal `json:"gross_revenue"`
	WonDealCount         int64           `json:"won_deal_count"`
	FixedCosts           decimal.Decimal `json:"fixed_costs"`
	VariableCosts        decimal.Decimal `json:"variable_costs"`
	TotalSalaries        decimal.Decimal `json:"total_salaries"`
	TotalCommissionsPaid decimal.Decimal `json:"total_commissions_paid"`

	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	IncomeTaxRate   decimal.Decimal `json:"income_tax_rate"`

	WithholdingTax        decimal.Decimal `json:"withholding_tax"`
	VAT                   decimal.Decimal `json:"vat"`
	ContributionMargin    decimal.Decimal `json:"contribution_margin"`
	ProfitBeforeIncomeTax decimal.Decimal `json:"profit_before_income_tax"`
	IncomeTax             decimal.Decimal `json:"income_tax"`
	NetProfit             decimal.Decimal `json:"net_profit"`
}
