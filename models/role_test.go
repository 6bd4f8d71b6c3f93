package models

import "testing"

func TestRoleRanksAreStrictlyOrdered(t *testing.T) {
	order := []Role{RoleViewer, RoleMember, RoleAdmin, RoleOwner, RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("expected %s to outrank %s, got %d <= %d",
				order[i], order[i-1], order[i].Rank(), order[i-1].Rank())
		}
	}
}

func TestUnknownRoleRanksBelowEverything(t *testing.T) {
	unknown := Role("INTERN")
	if unknown.Rank() != 0 {
		t.Errorf("expected rank 0 for unknown role, got %d", unknown.Rank())
	}
	if unknown.Valid() {
		t.Error("expected unknown role to be invalid")
	}
	if HasMinimumRole(unknown, RoleViewer) {
		t.Error("expected unknown role to fail the VIEWER minimum")
	}
}

func TestHasMinimumRole(t *testing.T) {
	tests := []struct {
		held     Role
		required Role
		want     bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleMember, false},
		{RoleMember, RoleViewer, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleOwner, RoleAdmin, true},
		{RoleAdmin, RoleOwner, false},
		{RoleSuperAdmin, RoleOwner, true},
	}
	for _, tt := range tests {
		if got := HasMinimumRole(tt.held, tt.required); got != tt.want {
			t.Errorf("HasMinimumRole(%s, %s) = %v, want %v", tt.held, tt.required, got, tt.want)
		}
	}
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		manager Role
		target  Role
		want    bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, false},
		{RoleAdmin, RoleOwner, false},
		{RoleAdmin, RoleMember, true},
		{RoleMember, RoleViewer, true},
		{RoleViewer, RoleViewer, false},
		{RoleSuperAdmin, RoleOwner, true},
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleOwner, RoleSuperAdmin, false},
	}
	for _, tt := range tests {
		if got := CanManage(tt.manager, tt.target); got != tt.want {
			t.Errorf("CanManage(%s, %s) = %v, want %v", tt.manager, tt.target, got, tt.want)
		}
	}
}

func TestCanManageIsAsymmetricBetweenDistinctRoles(t *testing.T) {
	roles := AssignableRoles()
	for _, a := range roles {
		for _, b := range roles {
			if a == b {
				continue
			}
			if CanManage(a, b) && CanManage(b, a) {
				t.Errorf("both %s and %s can manage each other", a, b)
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("ADMIN"); !ok || r != RoleAdmin {
		t.Errorf("ParseRole(ADMIN) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Error("expected lowercase role string to be rejected")
	}
	if _, ok := ParseRole(""); ok {
		t.Error("expected empty role string to be rejected")
	}
}

func TestAssignableRolesExcludeSuperAdmin(t *testing.T) {
	for _, r := range AssignableRoles() {
		if r == RoleSuperAdmin {
			t.Error("SUPER_ADMIN must not be assignable as a membership role")
		}
	}
}
