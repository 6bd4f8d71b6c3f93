package models

import "gorm.io/gorm"

// Tenant is the top-level workspace boundary. Every project belongs to
// exactly one tenant.
type Tenant struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`

	// Relations
	Owner    User               `json:"-"`
	Members  []TenantMembership `gorm:"foreignKey:TenantID" json:"members,omitempty"`
	Projects []Project          `gorm:"foreignKey:TenantID" json:"projects,omitempty"`
}

// TenantMembership grants a role on the tenant and, by dominance, on every
// project inside it.
type TenantMembership struct {
	gorm.Model
	TenantID uint `gorm:"not null;uniqueIndex:idx_tenant_user" json:"tenant_id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_tenant_user;index" json:"user_id"`
	Role     Role `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`

	// Relations
	Tenant Tenant `json:"-"`
	User   User   `json:"user,omitempty"`
}
