package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

// Invitation statuses.
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusExpired  = "EXPIRED"
	InviteStatusRevoked  = "REVOKED"
)

// InviteTTL is how long an invitation stays acceptable.
const InviteTTL = 7 * 24 * time.Hour

// Invitation invites an email address into a tenant (ProjectID nil) or a
// single project (ProjectID set), carrying the role to grant on acceptance.
// The raw token is delivered by email; only its SHA-256 hash is stored.
type Invitation struct {
	gorm.Model
	TokenHash string `gorm:"not null;uniqueIndex" json:"-"`
	TenantID  uint   `gorm:"not null;index" json:"tenant_id"`
	ProjectID *uint  `gorm:"index" json:"project_id,omitempty"`
	Email     string `gorm:"not null;index" json:"email"`
	Role      Role   `gorm:"type:varchar(20);not null" json:"role"`
	Status    string `gorm:"not null;default:'PENDING'" json:"status"`
	InvitedBy uint   `gorm:"not null" json:"invited_by"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relations
	Tenant  Tenant   `json:"-"`
	Project *Project `json:"-"`
	Inviter User     `gorm:"foreignKey:InvitedBy" json:"-"`
}

// IsProjectScoped reports whether the invitation targets a single project
// rather than the whole tenant.
func (i *Invitation) IsProjectScoped() bool {
	return i.ProjectID != nil
}

// Acceptable reports whether the invitation can still be accepted at t.
func (i *Invitation) Acceptable(t time.Time) bool {
	return i.Status == InviteStatusPending && t.Before(i.ExpiresAt)
}

// AcceptableInto reports whether the invitation can be accepted at t given
// its target project (nil for tenant-scoped invitations). A missing or
// trashed project blocks acceptance of a project-scoped invitation.
func (i *Invitation) AcceptableInto(project *Project, t time.Time) bool {
	if !i.Acceptable(t) {
		return false
	}
	if i.IsProjectScoped() {
		return project != nil && !project.IsTrashed()
	}
	return true
}

// HashInviteToken hashes a raw invitation token for storage and lookup.
func HashInviteToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
