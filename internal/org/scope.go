package org

import (
	"fmt"
	"net/http"

	"brokmang/internal/shared/apperror"
)

// ScopeKind is one level of the reporting hierarchy.
type ScopeKind string

const (
	ScopeOrganization ScopeKind = "organization"
	ScopeBusinessUnit ScopeKind = "business_unit"
	ScopeTeam         ScopeKind = "team"
	ScopeAgent        ScopeKind = "agent"
)

func ParseScopeKind(s string) (ScopeKind, error) {
	switch ScopeKind(s) {
	case ScopeOrganization, ScopeBusinessUnit, ScopeTeam, ScopeAgent:
		return ScopeKind(s), nil
	default:
		return "", apperror.New(apperror.CodeInvalidInput,
			fmt.Sprintf("invalid scope kind %q", s), http.StatusBadRequest)
	}
}

// Scope identifies one node of the hierarchy. ID equals OrgID when Kind is
// organization. Filters derived from a scope are transitive: an organization
// scope matches every deal and salary beneath it.
type Scope struct {
	Kind  ScopeKind
	OrgID string
	ID    string
}

func OrganizationScope(orgID string) Scope {
	return Scope{Kind: ScopeOrganization, OrgID: orgID, ID: orgID}
}

func (s Scope) String() string {
	return string(s.Kind) + ":" + s.ID
}
