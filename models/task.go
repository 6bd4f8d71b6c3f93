package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a self-referential tree node: ParentID links subtasks to their
// parent, Level is the depth from the root (root = 0, child = parent+1).
// OrderIndex orders siblings sharing the same parent and section; it is
// fractional so inserts and duplications never renumber neighbours.
type Task struct {
	gorm.Model
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	SectionID   *uint      `gorm:"index" json:"section_id,omitempty"`
	ParentID    *uint      `gorm:"index" json:"parent_id,omitempty"`
	Level       int        `gorm:"not null;default:0" json:"level"`
	OrderIndex  float64    `gorm:"not null;default:0" json:"order_index"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`

	// Relations
	Project  Project           `json:"-"`
	Section  *Section          `json:"-"`
	Parent   *Task             `json:"-"`
	Assignee *User             `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments []Comment         `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Values   []TaskColumnValue `gorm:"foreignKey:TaskID" json:"values,omitempty"`
}

// Comment is a user note attached to a task.
type Comment struct {
	gorm.Model
	TaskID uint   `gorm:"not null;index" json:"task_id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Body   string `gorm:"type:text;not null" json:"body"`

	// Relations
	Task Task `json:"-"`
	User User `json:"user,omitempty"`
}
