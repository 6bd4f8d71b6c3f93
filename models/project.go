package models

import (
	"time"

	"gorm.io/gorm"
)

// Project layout modes rendered by the client.
const (
	LayoutList     = "list"
	LayoutBoard    = "board"
	LayoutCalendar = "calendar"
)

// Project lives inside a tenant. Soft deletion is managed explicitly via
// DeletedAt (*time.Time, not gorm.DeletedAt) so that trash listing, restore
// and the purge sweep all state their intent in the query instead of relying
// on implicit scoping.
type Project struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	TenantID   uint       `gorm:"not null;index" json:"tenant_id"`
	Name       string     `gorm:"not null" json:"name"`
	LayoutMode string     `gorm:"default:'list'" json:"layout_mode"`
	CreatedBy  uint       `gorm:"not null" json:"created_by"`
	TemplateID *uint      `json:"template_id,omitempty"`

	// Relations
	Tenant   Tenant              `json:"-"`
	Members  []ProjectMembership `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Sections []Section           `gorm:"foreignKey:ProjectID" json:"sections,omitempty"`
	Tasks    []Task              `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Columns  []CustomColumn      `gorm:"foreignKey:ProjectID" json:"columns,omitempty"`
}

// IsTrashed reports whether the project sits in the trash.
func (p *Project) IsTrashed() bool {
	return p.DeletedAt != nil
}

// ProjectMembership grants a role on a single project. The service layer
// keeps the invariant that a project always retains at least one OWNER.
type ProjectMembership struct {
	gorm.Model
	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_project_user;index" json:"user_id"`
	Role      Role `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`

	// Relations
	Project Project `json:"-"`
	User    User    `json:"user,omitempty"`
}
