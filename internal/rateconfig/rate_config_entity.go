package rateconfig

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxConfig is an effective-dated, org-wide tax rate row. Rows are never
// deleted or rewritten: a new config closes the previous one by setting its
// effective_to, so historical reports always resolve the rates that were in
// force at the time. EffectiveTo == nil means currently active.
type TaxConfig struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	WithholdingRate decimal.Decimal `gorm:"type:decimal(6,5);not null"`
	VATRate         decimal.Decimal `gorm:"type:decimal(6,5);not null"`
	IncomeTaxRate   decimal.Decimal `gorm:"type:decimal(6,5);not null"`
	EffectiveFrom   time.Time       `gorm:"type:date;not null"`
	EffectiveTo     *time.Time      `gorm:"type:date"`
	Notes           string          `gorm:"type:text"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TaxConfig) TableName() string {
	return "tax_configs"
}

// CommissionConfig is keyed by (org, role) and carries the commission base
// rate per million of deal value. Same close-and-insert lifecycle as TaxConfig.
type CommissionConfig struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_commission_org_role"`
	Role           string          `gorm:"type:varchar(40);not null;index:idx_commission_org_role"`
	RatePerMillion decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EffectiveFrom  time.Time       `gorm:"type:date;not null"`
	EffectiveTo    *time.Time      `gorm:"type:date"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CommissionConfig) TableName() string {
	return "commission_configs"
}

// TaxRates is the resolved rate triple the P&L aggregator consumes.
type TaxRates struct {
	Withholding decimal.Decimal
	VAT         decimal.Decimal
	IncomeTax   decimal.Decimal
}

// DefaultTaxRates are applied when an organization has no config effective at
// the requested date. A missing config must never block reporting.
func DefaultTaxRates() TaxRates {
	return TaxRates{
		Withholding: decimal.NewFromFloat(0.05),
		VAT:         decimal.NewFromFloat(0.14),
		IncomeTax:   decimal.Zero,
	}
}

func (c TaxConfig) Rates() TaxRates {
	return TaxRates{
		Withholding: c.WithholdingRate,
		VAT:         c.VATRate,
		IncomeTax:   c.IncomeTaxRate,
	}
}
