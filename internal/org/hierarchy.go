package org

// Hierarchy is an immutable in-memory snapshot of one organization tree
// (organization -> business units -> teams -> agents). It is built once per
// rollup so every scope in the report sees the same membership.
type Hierarchy struct {
	Organization Organization

	units  []BusinessUnit
	teams  []Team
	agents []Agent

	teamsByUnit  map[string][]Team
	agentsByTeam map[string][]Agent
}

func NewHierarchy(
	organization Organization,
	units []BusinessUnit,
	teams []Team,
	agents []Agent,
) *Hierarchy {
	h := &Hierarchy{
		Organization: organization,
		units:        units,
		teams:        teams,
		agents:       agents,
		teamsByUnit:  make(map[string][]Team, len(units)),
		agentsByTeam: make(map[string][]Agent, len(teams)),
	}

	for _, t := range teams {
		key := t.BusinessUnitID.String()
		h.teamsByUnit[key] = append(h.teamsByUnit[key], t)
	}
	for _, a := range agents {
		key := a.TeamID.String()
		h.agentsByTeam[key] = append(h.agentsByTeam[key], a)
	}

	return h
}

func (h *Hierarchy) BusinessUnits() []BusinessUnit {
	return h.units
}

func (h *Hierarchy) Teams() []Team {
	return h.teams
}

func (h *Hierarchy) Agents() []Agent {
	return h.agents
}

func (h *Hierarchy) TeamsOf(businessUnitID string) []Team {
	return h.teamsByUnit[businessUnitID]
}

func (h *Hierarchy) AgentsOf(teamID string) []Agent {
	return h.agentsByTeam[teamID]
}

// Scopes returns every scope in the tree in rollup order: the organization
// first, then each business unit, its teams, and their agents.
func (h *Hierarchy) Scopes() []Scope {
	orgID := h.Organization.ID.String()
	scopes := []Scope{OrganizationScope(orgID)}

	for _, u := range h.units {
		scopes = append(scopes, Scope{Kind: ScopeBusinessUnit, OrgID: orgID, ID: u.ID.String()})
		for _, t := range h.TeamsOf(u.ID.String()) {
			scopes = append(scopes, Scope{Kind: ScopeTeam, OrgID: orgID, ID: t.ID.String()})
			for _, a := range h.AgentsOf(t.ID.String()) {
				scopes = append(scopes, Scope{Kind: ScopeAgent, OrgID: orgID, ID: a.ID.String()})
			}
		}
	}

	return scopes
}
