package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leavedesk/internal/domain"
)

func TestService_PermitMatrix(t *testing.T) {
	svc, err := NewService()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{domain.RoleEmployee, ResourceLeave, ActionCreate, true},
		{domain.RoleEmployee, ResourceLeave, ActionReadOwn, true},
		{domain.RoleEmployee, ResourceProfile, ActionRead, true},
		{domain.RoleEmployee, ResourceProfile, ActionUpdate, true},
		{domain.RoleEmployee, ResourceLeave, ActionReadAll, false},
		{domain.RoleEmployee, ResourceLeave, ActionDecide, false},
		{domain.RoleEmployee, ResourceDashboard, ActionRead, false},

		{domain.RoleEmployer, ResourceLeave, ActionReadAll, true},
		{domain.RoleEmployer, ResourceLeave, ActionDecide, true},
		{domain.RoleEmployer, ResourceDashboard, ActionRead, true},
		{domain.RoleEmployer, ResourceLeave, ActionCreate, false},
		{domain.RoleEmployer, ResourceLeave, ActionReadOwn, false},
		{domain.RoleEmployer, ResourceProfile, ActionRead, false},

		{"admin", ResourceLeave, ActionReadAll, false},
		{"", ResourceLeave, ActionCreate, false},
	}

	for _, tc := range cases {
		got, err := svc.Permit(domain.EnforceRequest{
			Role:     tc.role,
			Resource: tc.resource,
			Action:   tc.action,
		})
		assert.NoError(t, err)
		assert.Equalf(t, tc.want, got, "role=%q resource=%q action=%q", tc.role, tc.resource, tc.action)
	}
}
