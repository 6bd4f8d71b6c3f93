package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type MemberController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewMemberController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *MemberController {
	return &MemberController{DB: db, Logger: logger, Resolver: resolver}
}

// ListProjectMembers returns the direct members of a project.
func (mc *MemberController) ListProjectMembers(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var members []models.ProjectMembership
	if err := mc.DB.Preload("User").Where("project_id = ?", projectID).
		Order("created_at ASC").Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list members", err)
	}

	return c.JSON(utils.SuccessResponse(members))
}

// AddProjectMember shares a project with an existing user. The caller must
// outrank the role being granted.
func (mc *MemberController) AddProjectMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	actorRole := projectRoleFromContext(c)

	var input struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	role, ok := models.ParseRole(input.Role)
	if !ok || role == models.RoleSuperAdmin {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role", nil)
	}
	if !models.CanManage(actorRole, role) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot grant this role", nil)
	}

	var target models.User
	if err := mc.DB.Where("email = ?", input.Email).First(&target).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No account with that email", nil)
	}

	var existing models.ProjectMembership
	if err := mc.DB.Where("project_id = ? AND user_id = ?", projectID, target.ID).
		First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User is already a member", nil)
	}

	membership := models.ProjectMembership{
		ProjectID: projectID,
		UserID:    target.ID,
		Role:      role,
	}
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&membership).Error; err != nil {
			return services.FromDBError(err, "user is already a member of this project")
		}
		return utils.RecordActivity(tx, projectID, user.ID, "added_member", "user", target.ID, string(role))
	})
	if err != nil {
		// A concurrent add losing the race on the unique index lands
		// here as Conflict rather than a bare driver error.
		if services.KindOf(err) == services.KindConflict {
			return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(membership))
}

// UpdateProjectMemberRole changes a member's project role. The caller must
// outrank both the current and the new role, and the last OWNER cannot be
// demoted.
func (mc *MemberController) UpdateProjectMemberRole(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	memberUserID := utils.ParseUint(c.Params("userID"))
	actorRole := projectRoleFromContext(c)

	var input struct {
		Role string `json:"role" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	newRole, ok := models.ParseRole(input.Role)
	if !ok || newRole == models.RoleSuperAdmin {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role", nil)
	}

	var membership models.ProjectMembership
	if err := mc.DB.Where("project_id = ? AND user_id = ?", projectID, memberUserID).
		First(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}

	if !models.CanManage(actorRole, membership.Role) || !models.CanManage(actorRole, newRole) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot manage this member", nil)
	}

	if membership.Role == models.RoleOwner && newRole != models.RoleOwner {
		if err := mc.Resolver.CheckLastOwner(projectID, membership.Role); err != nil {
			return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
		}
	}

	if err := mc.DB.Model(&membership).Update("role", newRole).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role", err)
	}

	return c.JSON(fiber.Map{"message": "Role updated"})
}

// RemoveProjectMember revokes a member's direct access to the project.
func (mc *MemberController) RemoveProjectMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	memberUserID := utils.ParseUint(c.Params("userID"))
	actorRole := projectRoleFromContext(c)

	var membership models.ProjectMembership
	if err := mc.DB.Where("project_id = ? AND user_id = ?", projectID, memberUserID).
		First(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}

	// Members may remove themselves; anyone else needs to outrank them.
	if memberUserID != user.ID && !models.CanManage(actorRole, membership.Role) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot manage this member", nil)
	}

	if err := mc.Resolver.CheckLastOwner(projectID, membership.Role); err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "removed_member", "user", memberUserID, "")
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	return c.JSON(fiber.Map{"message": "Member removed"})
}
