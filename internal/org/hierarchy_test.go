package org

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHierarchy_Scopes(t *testing.T) {
	orgID := uuid.New()
	buA := uuid.New()
	buB := uuid.New()
	teamA1 := uuid.New()
	agentX := uuid.New()
	agentY := uuid.New()

	h := NewHierarchy(
		Organization{ID: orgID, Name: "Brokmang"},
		[]BusinessUnit{
			{ID: buA, OrgID: orgID, Name: "Cairo"},
			{ID: buB, OrgID: orgID, Name: "Alexandria"},
		},
		[]Team{
			{ID: teamA1, OrgID: orgID, BusinessUnitID: buA, Name: "Alpha"},
		},
		[]Agent{
			{ID: agentX, OrgID: orgID, BusinessUnitID: buA, TeamID: teamA1},
			{ID: agentY, OrgID: orgID, BusinessUnitID: buA, TeamID: teamA1},
		},
	)

	scopes := h.Scopes()
	assert.Len(t, scopes, 6)

	// Rollup order: org first, then each unit followed by its own subtree.
	assert.Equal(t, ScopeOrganization, scopes[0].Kind)
	assert.Equal(t, orgID.String(), scopes[0].ID)
	assert.Equal(t, ScopeBusinessUnit, scopes[1].Kind)
	assert.Equal(t, buA.String(), scopes[1].ID)
	assert.Equal(t, ScopeTeam, scopes[2].Kind)
	assert.Equal(t, ScopeAgent, scopes[3].Kind)
	assert.Equal(t, ScopeAgent, scopes[4].Kind)
	assert.Equal(t, buB.String(), scopes[5].ID)

	for _, s := range scopes {
		assert.Equal(t, orgID.String(), s.OrgID)
	}

	assert.Empty(t, h.TeamsOf(buB.String()))
	assert.Len(t, h.AgentsOf(teamA1.String()), 2)
}

func TestParseScopeKind(t *testing.T) {
	for _, valid := range []string{"organization", "business_unit", "team", "agent"} {
		kind, err := ParseScopeKind(valid)
		assert.NoError(t, err)
		assert.Equal(t, ScopeKind(valid), kind)
	}

	_, err := ParseScopeKind("region")
	assert.Error(t, err)
}
