package rateconfig

import "github.com/shopspring/decimal"

type SetTaxConfigRequest struct {
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	IncomeTaxRate   decimal.Decimal `json:"income_tax_rate"`
	EffectiveFrom   string          `json:"effective_from" binding:"required"`
	Notes           string          `json:"notes"`
}

type SetCommissionConfigRequest struct {
	Role           string          `json:"role" binding:"required"`
	RatePerMillion decimal.Decimal `json:"rate_per_million"`
	EffectiveFrom  string          `json:"effective_from" binding:"required"`
	Notes          string          `json:"notes"`
}

type TaxConfigResponse struct {
	ID              string          `json:"id"`
	OrgID           string          `json:"org_id"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	IncomeTaxRate   decimal.Decimal `json:"income_tax_rate"`
	EffectiveFrom   string          `json:"effective_from"`
	EffectiveTo     *string         `json:"effective_to"`
	Notes           string          `json:"notes,omitempty"`
}

type CommissionConfigResponse struct {
	ID             string          `json:"id"`
	OrgID          string          `json:"org_id"`
	Role           string          `json:"role"`
	RatePerMillion decimal.Decimal `json:"rate_per_million"`
	EffectiveFrom  string          `json:"effective_from"`
	EffectiveTo    *string         `json:"effective_to"`
	Notes          string          `json:"notes,omitempty"`
}

type CommissionEstimateResponse struct {
	Role           string          `json:"role"`
	DealValue      decimal.Decimal `json:"deal_value"`
	RatePerMillion decimal.Decimal `json:"rate_per_million"`
	Commission     decimal.Decimal `json:"commission"`
}
