package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/config"
	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type ProjectController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewProjectController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *ProjectController {
	return &ProjectController{DB: db, Logger: logger, Resolver: resolver}
}

// CreateProject creates a project inside a tenant. The project row, the
// creator's OWNER membership and the template's default sections commit
// atomically.
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	tenantID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name       string `json:"name" validate:"required,max=200"`
		LayoutMode string `json:"layout_mode" validate:"omitempty,oneof=list board calendar"`
		Template   string `json:"template" validate:"omitempty,max=60"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	tmplName := input.Template
	if tmplName == "" {
		tmplName = "blank"
	}
	var tmpl models.Template
	if err := pc.DB.Where("name = ?", tmplName).First(&tmpl).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found", nil)
	}

	layout := input.LayoutMode
	if layout == "" {
		layout = tmpl.LayoutMode
	}

	project := models.Project{
		TenantID:   tenantID,
		Name:       input.Name,
		LayoutMode: layout,
		CreatedBy:  user.ID,
		TemplateID: &tmpl.ID,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		membership := models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    user.ID,
			Role:      models.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		for i, name := range tmpl.Sections() {
			section := models.Section{
				ProjectID: project.ID,
				Name:      name,
				Position:  i,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
		}
		return utils.RecordActivity(tx, project.ID, user.ID, "created", "project", project.ID, project.Name)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create project", err)
	}

	pc.Logger.Printf("project %d created in tenant %d by user %d", project.ID, tenantID, user.ID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(project))
}

// GetProjects lists the live projects of a tenant that are visible to the
// caller: all of them for tenant members and super admins, otherwise only
// those with a project membership.
func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	tenantID := utils.ParseUint(c.Params("id"))

	query := pc.DB.Where("projects.tenant_id = ? AND projects.deleted_at IS NULL", tenantID).
		Order("projects.created_at ASC")

	_, err := pc.Resolver.ResolveTenantRole(user, tenantID)
	if err != nil {
		if services.KindOf(err) != services.KindForbidden {
			return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
		}
		// No tenant membership: fall back to projects shared directly.
		query = query.
			Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
			Where("project_memberships.user_id = ? AND project_memberships.deleted_at IS NULL", user.ID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list projects", err)
	}

	return c.JSON(utils.SuccessResponse(projects))
}

// GetProject returns a project with its sections and the task tree.
func (pc *ProjectController) GetProject(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var project models.Project
	if err := pc.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sections.position ASC")
	}).Preload("Columns").First(&project, projectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	var tasks []models.Task
	if err := pc.DB.Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}

	tree := utils.BuildHierarchy(tasks, nil)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"project": project,
		"tasks":   utils.TransformTasks(tree),
	}))
}

// UpdateProject changes the project name or layout mode.
func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name       string `json:"name" validate:"omitempty,max=200"`
		LayoutMode string `json:"layout_mode" validate:"omitempty,oneof=list board calendar"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.LayoutMode != "" {
		updates["layout_mode"] = input.LayoutMode
	}
	if len(updates) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Nothing to update", nil)
	}

	if err := pc.DB.Model(&models.Project{}).Where("id = ?", projectID).
		Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update project", err)
	}

	return c.JSON(fiber.Map{"message": "Project updated"})
}

// TrashProject soft-deletes a project. It stays restorable until the trash
// worker purges it after the retention window.
func (pc *ProjectController) TrashProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	now := time.Now()
	res := pc.DB.Model(&models.Project{}).
		Where("id = ? AND deleted_at IS NULL", projectID).
		Update("deleted_at", now)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to move project to trash", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	utils.LogEvent("project_trashed", map[string]interface{}{
		"project_id": projectID, "user_id": user.ID,
	})
	return c.JSON(fiber.Map{"message": "Project moved to trash"})
}

// scopeTrashedProject narrows a project mutation to a trashed project of
// one tenant. Projects in other tenants read as missing.
func scopeTrashedProject(db *gorm.DB, tenantID, projectID uint) *gorm.DB {
	return db.Model(&models.Project{}).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NOT NULL", projectID, tenantID)
}

// RestoreProject brings a project back from the trash of the tenant the
// caller is authorized for. The conditional update is the mutual exclusion
// against a concurrent purge: whichever of restore and hard-delete matches
// the row first wins.
func (pc *ProjectController) RestoreProject(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))
	projectID := utils.ParseUint(c.Params("projectID"))

	res := scopeTrashedProject(pc.DB, tenantID, projectID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to restore project", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found in trash", nil)
	}

	return c.JSON(fiber.Map{"message": "Project restored"})
}

// GetTrash lists the soft-deleted projects of a tenant.
func (pc *ProjectController) GetTrash(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))

	var projects []models.Project
	if err := pc.DB.Where("tenant_id = ? AND deleted_at IS NOT NULL", tenantID).
		Order("deleted_at DESC").Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list trash", err)
	}

	retention := time.Duration(config.AppConfig.TrashRetentionDays) * 24 * time.Hour
	type trashedProject struct {
		models.Project
		PurgeAt time.Time `json:"purge_at"`
	}
	out := make([]trashedProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, trashedProject{Project: p, PurgeAt: p.DeletedAt.Add(retention)})
	}

	return c.JSON(utils.SuccessResponse(out))
}

// GetActivity returns the project's recent activity, newest first.
func (pc *ProjectController) GetActivity(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var entries []models.ActivityLog
	if err := pc.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load activity", err)
	}

	return c.JSON(utils.SuccessResponse(entries))
}

// DuplicateProject clones a project with its sections and full task tree
// into the same tenant. The caller becomes OWNER of the clone.
func (pc *ProjectController) DuplicateProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	var source models.Project
	if err := pc.DB.First(&source, projectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	var sections []models.Section
	if err := pc.DB.Where("project_id = ?", projectID).Order("position ASC").
		Find(&sections).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sections", err)
	}
	var tasks []models.Task
	if err := pc.DB.Where("project_id = ?", projectID).Order("level ASC, order_index ASC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}

	clone := models.Project{
		TenantID:   source.TenantID,
		Name:       source.Name + " (copy)",
		LayoutMode: source.LayoutMode,
		CreatedBy:  user.ID,
		TemplateID: source.TemplateID,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.ProjectMembership{
			ProjectID: clone.ID,
			UserID:    user.ID,
			Role:      models.RoleOwner,
		}).Error; err != nil {
			return err
		}

		sectionIDs := make(map[uint]uint, len(sections))
		for _, s := range sections {
			ns := models.Section{ProjectID: clone.ID, Name: s.Name, Position: s.Position}
			if err := tx.Create(&ns).Error; err != nil {
				return err
			}
			sectionIDs[s.ID] = ns.ID
		}

		// Tasks are ordered by level, so a parent's clone always exists
		// before its children are cloned.
		taskIDs := make(map[uint]uint, len(tasks))
		for _, t := range tasks {
			nt := models.Task{
				ProjectID:   clone.ID,
				Level:       t.Level,
				OrderIndex:  t.OrderIndex,
				Title:       t.Title,
				Description: t.Description,
				AssigneeID:  t.AssigneeID,
				DueDate:     t.DueDate,
				Completed:   t.Completed,
				CompletedAt: t.CompletedAt,
				CreatedBy:   user.ID,
			}
			if t.SectionID != nil {
				if id, ok := sectionIDs[*t.SectionID]; ok {
					nt.SectionID = &id
				}
			}
			if t.ParentID != nil {
				if id, ok := taskIDs[*t.ParentID]; ok {
					nt.ParentID = &id
				}
			}
			if err := tx.Create(&nt).Error; err != nil {
				return err
			}
			taskIDs[t.ID] = nt.ID
		}

		return utils.RecordActivity(tx, clone.ID, user.ID, "duplicated", "project", source.ID, source.Name)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate project", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(clone))
}
