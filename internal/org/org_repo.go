package org

import (
	"context"

	"brokmang/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=org_repo.go -destination=mock/org_repo_mock.go -package=mock
type Repository interface {
	FindOrganization(ctx context.Context, orgID string) (*Organization, error)
	LoadHierarchy(ctx context.Context, orgID string) (*Hierarchy, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOrganization(ctx context.Context, orgID string) (*Organization, error) {
	var organization Organization
	err := r.db.WithContext(ctx).First(&organization, "id = ?", orgID).Error
	return &organization, err
}

// LoadHierarchy reads every level beneath the organization in one pass.
// Back-to-back snapshots may legitimately diverge if membership changed in
// between; callers hold one snapshot for the whole rollup.
func (r *repository) LoadHierarchy(ctx context.Context, orgID string) (*Hierarchy, error) {
	var organization Organization
	if err := r.db.WithContext(ctx).First(&organization, "id = ?", orgID).Error; err != nil {
		return nil, err
	}

	var units []BusinessUnit
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("name ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}

	var teams []Team
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	var agents []Agent
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("full_name ASC").
		Find(&agents).Error; err != nil {
		return nil, err
	}

	return NewHierarchy(organization, units, teams, agents), nil
}
