package models

import "gorm.io/gorm"

// Custom column value types.
const (
	ColumnText   = "text"
	ColumnNumber = "number"
	ColumnDate   = "date"
	ColumnSelect = "select"
)

// CustomColumn is a user-defined field on a project's tasks.
type CustomColumn struct {
	gorm.Model
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`
	Type      string `gorm:"not null;default:'text'" json:"type"`
	// Options holds the choices for select columns, one per line.
	Options string `gorm:"type:text" json:"options,omitempty"`

	// Relations
	Project Project           `json:"-"`
	Values  []TaskColumnValue `gorm:"foreignKey:ColumnID" json:"-"`
}

// TaskColumnValue stores a single task's value for a custom column.
type TaskColumnValue struct {
	gorm.Model
	TaskID   uint   `gorm:"not null;uniqueIndex:idx_task_column" json:"task_id"`
	ColumnID uint   `gorm:"not null;uniqueIndex:idx_task_column" json:"column_id"`
	Value    string `gorm:"type:text" json:"value"`

	// Relations
	Task   Task         `json:"-"`
	Column CustomColumn `json:"-"`
}
