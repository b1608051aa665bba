package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act`

// Roles are carried in the token by the identity service; the ledger only
// maps them onto resource grants. Policy is static: rate and cost writes are
// reserved for finance and the CEO, reads go down the management chain.
var policies = [][]string{
	{"ceo", "rate_config", "read"},
	{"ceo", "rate_config", "write"},
	{"ceo", "cost_entry", "read"},
	{"ceo", "cost_entry", "write"},
	{"ceo", "cost_entry", "approve"},
	{"ceo", "salary", "read"},
	{"ceo", "salary", "write"},
	{"ceo", "report", "read"},

	{"finance", "rate_config", "read"},
	{"finance", "rate_config", "write"},
	{"finance", "cost_entry", "read"},
	{"finance", "cost_entry", "write"},
	{"finance", "cost_entry", "approve"},
	{"finance", "salary", "read"},
	{"finance", "salary", "write"},
	{"finance", "report", "read"},

	{"bu_manager", "rate_config", "read"},
	{"bu_manager", "cost_entry", "read"},
	{"bu_manager", "salary", "read"},
	{"bu_manager", "report", "read"},

	{"team_leader", "rate_config", "read"},
	{"team_leader", "report", "read"},

	{"agent", "report", "read"},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Allowed(role, resource, action string) (bool, error) {
	return e.enforcer.Enforce(role, resource, action)
}
