package salary

import "github.com/shopspring/decimal"

type SetSalaryRequest struct {
	AgentID       string          `json:"agent_id" binding:"required"`
	Role          string          `json:"role" binding:"required"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Currency      string          `json:"currency"`
	EffectiveFrom string          `json:"effective_from" binding:"required"`
}

type SalaryRecordResponse struct {
	ID            string          `json:"id"`
	OrgID         string          `json:"org_id"`
	AgentID       string          `json:"agent_id"`
	Role          string          `json:"role"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Currency      string          `json:"currency"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
}
