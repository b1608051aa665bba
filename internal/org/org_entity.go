package org

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(120);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BusinessUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(120);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID          uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessUnitID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(120);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Agent is a selling employee. Team membership management happens elsewhere;
// this engine only reads the hierarchy.
type Agent struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID          uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessUnitID uuid.UUID `gorm:"type:uuid;not null;index"`
	TeamID         uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	Role           string    `gorm:"type:varchar(40);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
