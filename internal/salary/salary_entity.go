package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryRecord is effective-dated per agent, with the same close-and-insert
// lifecycle as rate configs: a raise closes the prior record at the new
// record's effective_from. Gaps are normal (departed or not-yet-started
// agents) and contribute zero to payroll.
type SalaryRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Role          string          `gorm:"type:varchar(40);not null"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'EGP'"`
	EffectiveFrom time.Time       `gorm:"type:date;not null"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}
