package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const StageWon = "won"

// Deal is owned by the deals service; the ledger engine reads it and never
// writes. Only won deals carry revenue, attributed to the month containing
// closed_date.
type Deal struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BusinessUnitID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TeamID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Stage           string          `gorm:"type:varchar(20);not null;index"`
	DealValue       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CommissionValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ClosedDate      *time.Time      `gorm:"type:date;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Deal) TableName() string {
	return "deals"
}
