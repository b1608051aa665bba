package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnforcer_Allowed(t *testing.T) {
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{"finance", "rate_config", "write", true},
		{"ceo", "rate_config", "write", true},
		{"bu_manager", "rate_config", "write", false},
		{"team_leader", "rate_config", "write", false},
		{"agent", "rate_config", "write", false},

		{"finance", "cost_entry", "write", true},
		{"ceo", "cost_entry", "write", true},
		{"finance", "cost_entry", "approve", true},
		{"bu_manager", "cost_entry", "approve", false},
		{"bu_manager", "cost_entry", "write", false},
		{"bu_manager", "cost_entry", "read", true},

		{"agent", "report", "read", true},
		{"agent", "salary", "read", false},

		{"", "report", "read", false},
		{"intruder", "report", "read", false},
	}

	for _, tc := range cases {
		got, err := enforcer.Allowed(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
