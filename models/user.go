package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	TokenVersion  int    `gorm:"default:1" json:"-"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Timezone  string  `gorm:"default:'UTC'" json:"timezone"`
	Language  string  `gorm:"default:'en'" json:"language"`

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`
	// IsSuperAdmin bypasses membership checks everywhere; it is a user
	// flag, not a grantable membership role.
	IsSuperAdmin bool `gorm:"default:false" json:"is_super_admin"`

	// Password reset
	ResetToken          *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Onboarding wizard progress (step 0 = not started, 9 = finished)
	OnboardingStep int  `gorm:"default:0" json:"onboarding_step"`
	OnboardingDone bool `gorm:"default:false" json:"onboarding_done"`

	// Relations
	OwnedTenants       []Tenant            `gorm:"foreignKey:OwnerID" json:"owned_tenants,omitempty"`
	TenantMemberships  []TenantMembership  `gorm:"foreignKey:UserID" json:"tenant_memberships,omitempty"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:UserID" json:"project_memberships,omitempty"`
}

// RefreshToken tracks issued refresh tokens so they can be revoked
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;uniqueIndex" json:"-"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	User User `json:"-"`
}

// DisplayName falls back to the email local part when no name is set.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
