package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type TenantController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewTenantController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *TenantController {
	return &TenantController{DB: db, Logger: logger, Resolver: resolver}
}

// CreateTenant creates a workspace and enrolls the creator as OWNER in the
// same transaction.
func (tc *TenantController) CreateTenant(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	tenant := models.Tenant{
		Name:    input.Name,
		OwnerID: user.ID,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		membership := models.TenantMembership{
			TenantID: tenant.ID,
			UserID:   user.ID,
			Role:     models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create workspace", err)
	}

	tc.Logger.Printf("tenant %d created by user %d", tenant.ID, user.ID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(tenant))
}

// GetTenants lists the workspaces the caller belongs to.
func (tc *TenantController) GetTenants(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var tenants []models.Tenant
	query := tc.DB.Order("tenants.created_at ASC")
	if !user.IsSuperAdmin {
		query = query.
			Joins("JOIN tenant_memberships ON tenant_memberships.tenant_id = tenants.id").
			Where("tenant_memberships.user_id = ? AND tenant_memberships.deleted_at IS NULL", user.ID)
	}
	if err := query.Find(&tenants).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list workspaces", err)
	}

	return c.JSON(utils.SuccessResponse(tenants))
}

// GetTenant returns a single workspace with its members.
func (tc *TenantController) GetTenant(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))

	var tenant models.Tenant
	if err := tc.DB.Preload("Members.User").First(&tenant, tenantID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Workspace not found", nil)
	}

	return c.JSON(utils.SuccessResponse(tenant))
}

// UpdateTenant renames a workspace.
func (tc *TenantController) UpdateTenant(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := tc.DB.Model(&models.Tenant{}).Where("id = ?", tenantID).
		Update("name", input.Name).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update workspace", err)
	}

	return c.JSON(fiber.Map{"message": "Workspace updated"})
}

// ListTenantMembers returns the membership roster.
func (tc *TenantController) ListTenantMembers(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))

	var members []models.TenantMembership
	if err := tc.DB.Preload("User").Where("tenant_id = ?", tenantID).
		Order("created_at ASC").Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list members", err)
	}

	return c.JSON(utils.SuccessResponse(members))
}

// UpdateTenantMemberRole changes a member's workspace role. The caller must
// outrank both the member's current role and the new role; the last OWNER
// cannot be demoted.
func (tc *TenantController) UpdateTenantMemberRole(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))
	memberUserID := utils.ParseUint(c.Params("userID"))
	actorRole := tenantRoleFromContext(c)

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

	var membership models.TenantMembership
	if err := tc.DB.Where("tenant_id = ? AND user_id = ?", tenantID, memberUserID).
		First(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}

	if !models.CanManage(actorRole, membership.Role) || !models.CanManage(actorRole, newRole) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot manage this member", nil)
	}

	// Demoting an OWNER requires another OWNER to remain
	if membership.Role == models.RoleOwner && newRole != models.RoleOwner {
		if err := tc.Resolver.CheckLastTenantOwner(tenantID, membership.Role); err != nil {
			return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
		}
	}

	if err := tc.DB.Model(&membership).Update("role", newRole).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role", err)
	}

	return c.JSON(fiber.Map{"message": "Role updated"})
}

// RemoveTenantMember removes a member from the workspace.
func (tc *TenantController) RemoveTenantMember(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))
	memberUserID := utils.ParseUint(c.Params("userID"))
	actorRole := tenantRoleFromContext(c)

	var membership models.TenantMembership
	if err := tc.DB.Where("tenant_id = ? AND user_id = ?", tenantID, memberUserID).
		First(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}

	if !models.CanManage(actorRole, membership.Role) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot manage this member", nil)
	}

	if err := tc.Resolver.CheckLastTenantOwner(tenantID, membership.Role); err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	if err := tc.DB.Delete(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	tc.Logger.Printf("user %d removed from tenant %d", memberUserID, tenantID)
	return c.JSON(fiber.Map{"message": "Member removed"})
}
