package costledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Category is the fixed cost taxonomy. Salary buckets exist per selling role so
// the ledger can carry manually booked payroll costs next to the derived ones.
type Category string

const (
	CategoryRent          Category = "rent"
	CategorySalaryAgent   Category = "salary_agent"
	CategorySalaryManager Category = "salary_manager"
	CategorySalaryAdmin   Category = "salary_admin"
	CategoryMarketing     Category = "marketing"
	CategoryUtilities     Category = "utilities"
	CategorySoftware      Category = "software"
	CategorySupplies      Category = "supplies"
	CategoryTravel        Category = "travel"
	CategoryTraining      Category = "training"
	CategoryOtherFixed    Category = "other_fixed"
	CategoryOtherVariable Category = "other_variable"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryRent, CategorySalaryAgent, CategorySalaryManager, CategorySalaryAdmin,
		CategoryMarketing, CategoryUtilities, CategorySoftware, CategorySupplies,
		CategoryTravel, CategoryTraining, CategoryOtherFixed, CategoryOtherVariable:
		return true
	}
	return false
}

// CostEntry is an append-only financial fact. Once written, only the approval
// status may change; corrections are new entries. CostMonth is always the first
// day of its month so period bucketing is exact equality.
type CostEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_cost_org_month"`
	BusinessUnitID *uuid.UUID      `gorm:"type:uuid;index"`
	EntryNumber    string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Category       Category        `gorm:"type:varchar(30);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CostMonth      time.Time       `gorm:"type:date;not null;index:idx_cost_org_month"`
	IsFixedCost    bool            `gorm:"not null"`
	IsRecurring    bool            `gorm:"not null;default:false"`
	Status         string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	ReceiptRef     *string         `gorm:"type:varchar(255)"`
	Notes          string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CostEntry) TableName() string {
	return "cost_entries"
}
