package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"cafeteria/internal/domain"
)

const (
	ResourceStaff  = "staff"
	ResourceOrders = "orders"

	ActionRead    = "read"
	ActionWrite   = "write"
	ActionAdvance = "advance"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var staffPolicies = [][]string{
	{string(domain.StaffRoleAdmin), ResourceStaff, ActionRead},
	{string(domain.StaffRoleAdmin), ResourceStaff, ActionWrite},
	{string(domain.StaffRoleAdmin), ResourceOrders, ActionAdvance},
	{string(domain.StaffRoleVendedor), ResourceOrders, ActionAdvance},
}

// Enforcer decides what each staff role may do on the point-of-sale routes.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parsing rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("creating enforcer: %w", err)
	}

	for _, p := range staffPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("adding policy %v: %w", p, err)
		}
	}

	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Allowed(role domain.StaffRole, resource, action string) (bool, error) {
	return e.enforcer.Enforce(string(role), resource, action)
}
