package costledger

import "github.com/shopspring/decimal"

type AddCostRequest struct {
	BusinessUnitID *string         `json:"business_unit_id"`
	Category       string          `json:"category" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	CostMonth      string          `json:"cost_month" binding:"required"`
	IsFixedCost    bool            `json:"is_fixed_cost"`
	IsRecurring    bool            `json:"is_recurring"`
	ReceiptRef     *string         `json:"receipt_ref"`
	Notes          string          `json:"notes"`
}

type UpdateCostStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CostEntryResponse struct {
	ID             string          `json:"id"`
	OrgID          string          `json:"org_id"`
	BusinessUnitID *string         `json:"business_unit_id"`
	EntryNumber    string          `json:"entry_number"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	CostMonth      string          `json:"cost_month"`
	IsFixedCost    bool            `json:"is_fixed_cost"`
	IsRecurring    bool            `json:"is_recurring"`
	Status         string          `json:"status"`
	ReceiptRef     *string         `json:"receipt_ref,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// CostBreakdown partitions one month's entries for the P&L aggregator and the
// expense views.
type CostBreakdown struct {
	Period        string              `json:"period"`
	FixedTotal    decimal.Decimal     `json:"fixed_total"`
	VariableTotal decimal.Decimal     `json:"variable_total"`
	Fixed         []CostEntryResponse `json:"fixed"`
	Variable      []CostEntryResponse `json:"variable"`
}
