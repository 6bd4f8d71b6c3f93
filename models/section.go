package models

import "gorm.io/gorm"

// Section is an ordered grouping of tasks within a project (a board column
// or a list group). Position is a dense zero-based sequence per project:
// after any insert, delete or reorder the positions form 0..n-1.
type Section struct {
	gorm.Model
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`
	Position  int    `gorm:"not null;default:0" json:"position"`

	// Relations
	Project Project `json:"-"`
	Tasks   []Task  `gorm:"foreignKey:SectionID" json:"tasks,omitempty"`
}
