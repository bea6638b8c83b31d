package policy

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"leavedesk/internal/domain"
)

// Resources and actions protected operations declare.
const (
	ResourceLeave     = "leave"
	ResourceProfile   = "profile"
	ResourceDashboard = "dashboard"

	ActionCreate  = "create"
	ActionReadOwn = "read-own"
	ActionReadAll = "read-all"
	ActionDecide  = "decide"
	ActionRead    = "read"
	ActionUpdate  = "update"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// The full permission table. Roles are a closed set, so the policy is
// static and loaded once at construction.
var rules = [][3]string{
	{domain.RoleEmployee, ResourceLeave, ActionCreate},
	{domain.RoleEmployee, ResourceLeave, ActionReadOwn},
	{domain.RoleEmployee, ResourceProfile, ActionRead},
	{domain.RoleEmployee, ResourceProfile, ActionUpdate},

	{domain.RoleEmployer, ResourceLeave, ActionReadAll},
	{domain.RoleEmployer, ResourceLeave, ActionDecide},
	{domain.RoleEmployer, ResourceDashboard, ActionRead},
}

type Service interface {
	Permit(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, r := range rules {
		if _, err := enforcer.AddPolicy(r[0], r[1], r[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Permit(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
