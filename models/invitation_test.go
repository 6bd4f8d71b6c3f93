package models

import (
	"testing"
	"time"
)

func TestInvitationAcceptable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		status string
		expiry time.Time
		want   bool
	}{
		{"pending and fresh", InviteStatusPending, now.Add(time.Hour), true},
		{"pending but expired", InviteStatusPending, now.Add(-time.Hour), false},
		{"already accepted", InviteStatusAccepted, now.Add(time.Hour), false},
		{"revoked", InviteStatusRevoked, now.Add(time.Hour), false},
		{"expires exactly now", InviteStatusPending, now, false},
	}
	for _, tt := range tests {
		inv := Invitation{Status: tt.status, ExpiresAt: tt.expiry}
		if got := inv.Acceptable(now); got != tt.want {
			t.Errorf("%s: Acceptable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInvitationAcceptableInto(t *testing.T) {
	now := time.Now()
	projectID := uint(7)
	trashedAt := now.Add(-time.Minute)

	live := &Project{ID: projectID, TenantID: 1}
	trashed := &Project{ID: projectID, TenantID: 1, DeletedAt: &trashedAt}

	fresh := func() Invitation {
		return Invitation{
			TenantID:  1,
			Status:    InviteStatusPending,
			ExpiresAt: now.Add(time.Hour),
		}
	}

	tenantInv := fresh()
	if !tenantInv.AcceptableInto(nil, now) {
		t.Error("tenant-scoped invitation must not require a project")
	}

	projInv := fresh()
	projInv.ProjectID = &projectID
	if !projInv.AcceptableInto(live, now) {
		t.Error("expected acceptance into a live project")
	}
	if projInv.AcceptableInto(trashed, now) {
		t.Error("invitation into a trashed project must not be acceptable")
	}
	if projInv.AcceptableInto(nil, now) {
		t.Error("invitation into a missing project must not be acceptable")
	}

	expired := fresh()
	expired.ProjectID = &projectID
	expired.ExpiresAt = now.Add(-time.Hour)
	if expired.AcceptableInto(live, now) {
		t.Error("expiry must still block acceptance regardless of the project")
	}
}

func TestInvitationScope(t *testing.T) {
	tenantWide := Invitation{TenantID: 1}
	if tenantWide.IsProjectScoped() {
		t.Error("expected invitation without project to be tenant scoped")
	}

	projectID := uint(7)
	scoped := Invitation{TenantID: 1, ProjectID: &projectID}
	if !scoped.IsProjectScoped() {
		t.Error("expected invitation with project to be project scoped")
	}
}

func TestHashInviteToken(t *testing.T) {
	a := HashInviteToken("token-one")
	b := HashInviteToken("token-one")
	c := HashInviteToken("token-two")

	if a != b {
		t.Error("expected identical tokens to hash identically")
	}
	if a == c {
		t.Error("expected distinct tokens to hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == "token-one" {
		t.Error("raw token must not be stored as its own hash")
	}
}
