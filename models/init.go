package models

import "gorm.io/gorm"

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Tenant{},
		&TenantMembership{},
		&Project{},
		&ProjectMembership{},
		&Section{},
		&Task{},
		&Comment{},
		&CustomColumn{},
		&TaskColumnValue{},
		&Invitation{},
		&Template{},
		&ActivityLog{},
	)
}

// CreateDefaultTemplates seeds the built-in project templates.
func CreateDefaultTemplates(db *gorm.DB) error {
	defaultTemplates := []Template{
		{
			Name:         "blank",
			Description:  "Empty project with a single section",
			LayoutMode:   LayoutList,
			SectionNames: "To do",
		},
		{
			Name:         "kanban",
			Description:  "Classic three-column board",
			LayoutMode:   LayoutBoard,
			SectionNames: "To do\nIn progress\nDone",
		},
		{
			Name:         "sprint",
			Description:  "Sprint planning board with a backlog",
			LayoutMode:   LayoutBoard,
			SectionNames: "Backlog\nPlanned\nIn progress\nIn review\nDone",
		},
		{
			Name:         "weekly",
			Description:  "Weekly planner grouped by day",
			LayoutMode:   LayoutList,
			SectionNames: "Monday\nTuesday\nWednesday\nThursday\nFriday",
		},
	}
	for _, tmpl := range defaultTemplates {
		if err := db.FirstOrCreate(&tmpl, "name = ?", tmpl.Name).Error; err != nil {
			return err
		}
	}
	return nil
}
