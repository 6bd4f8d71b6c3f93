package models

import (
	"strings"

	"gorm.io/gorm"
)

// Template is a named project blueprint. SectionNames lists the default
// sections created for projects cloned from it, one name per line.
type Template struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	Description  string `json:"description"`
	LayoutMode   string `gorm:"default:'list'" json:"layout_mode"`
	SectionNames string `gorm:"type:text" json:"section_names"`
}

// Sections returns the default section names in order.
func (t *Template) Sections() []string {
	var out []string
	for _, line := range strings.Split(t.SectionNames, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ActivityLog records project-scoped audit events. Rows are written in the
// same transaction as the mutation they describe.
type ActivityLog struct {
	gorm.Model
	ProjectID  uint   `gorm:"not null;index" json:"project_id"`
	ActorID    uint   `gorm:"not null" json:"actor_id"`
	Action     string `gorm:"not null" json:"action"`
	EntityType string `gorm:"not null" json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
	Detail     string `gorm:"type:text" json:"detail,omitempty"`

	// Relations
	Project Project `json:"-"`
	Actor   User    `gorm:"foreignKey:ActorID" json:"-"`
}
