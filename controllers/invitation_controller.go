package controller

import (
	"log"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type InvitationController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewInvitationController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *InvitationController {
	return &InvitationController{DB: db, Logger: logger, Resolver: resolver}
}

// CreateInvitation invites an email address into the tenant, or into a
// single project when project_id is set. The caller must outrank the role
// being granted. Only the token hash is stored; the raw token goes out by
// email.
func (ic *InvitationController) CreateInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	tenantID := utils.ParseUint(c.Params("id"))
	actorRole := tenantRoleFromContext(c)

	var input struct {
		Email     string `json:"email" validate:"required,email"`
		Role      string `json:"role" validate:"required"`
		ProjectID *uint  `json:"project_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	role, ok := models.ParseRole(input.Role)
	if !ok || role == models.RoleSuperAdmin {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role", nil)
	}
	if !models.CanManage(actorRole, role) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You cannot grant this role", nil)
	}

	scopeName := ""
	if input.ProjectID != nil {
		var project models.Project
		if err := ic.DB.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL",
			*input.ProjectID, tenantID).First(&project).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
		}
		scopeName = project.Name
	} else {
		var tenant models.Tenant
		if err := ic.DB.First(&tenant, tenantID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Workspace not found", nil)
		}
		scopeName = tenant.Name
	}

	var pending int64
	q := ic.DB.Model(&models.Invitation{}).
		Where("tenant_id = ? AND email = ? AND status = ?", tenantID, email, models.InviteStatusPending)
	if input.ProjectID != nil {
		q = q.Where("project_id = ?", *input.ProjectID)
	} else {
		q = q.Where("project_id IS NULL")
	}
	if err := q.Count(&pending).Error; err == nil && pending > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "An invitation is already pending for this email", nil)
	}

	token := uuid.NewString()
	invitation := models.Invitation{
		TokenHash: models.HashInviteToken(token),
		TenantID:  tenantID,
		ProjectID: input.ProjectID,
		Email:     email,
		Role:      role,
		Status:    models.InviteStatusPending,
		InvitedBy: user.ID,
		ExpiresAt: time.Now().Add(models.InviteTTL),
	}
	if err := ic.DB.Create(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invitation", err)
	}

	if err := utils.SendInvitationEmail(email, user.DisplayName(), scopeName, string(role), token); err != nil {
		utils.LogEvent("invite_email_failed", map[string]interface{}{
			"invitation_id": invitation.ID, "error": err.Error(),
		})
	}

	ic.Logger.Printf("invitation %d created for %s by user %d", invitation.ID, email, user.ID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invitation))
}

// ListInvitations returns a tenant's invitations, newest first. Pending
// invitations past their expiry are reported as expired.
func (ic *InvitationController) ListInvitations(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))

	var invitations []models.Invitation
	if err := ic.DB.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Find(&invitations).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list invitations", err)
	}

	now := time.Now()
	for i := range invitations {
		if invitations[i].Status == models.InviteStatusPending && !now.Before(invitations[i].ExpiresAt) {
			invitations[i].Status = models.InviteStatusExpired
		}
	}

	return c.JSON(utils.SuccessResponse(invitations))
}

// RevokeInvitation cancels a pending invitation.
func (ic *InvitationController) RevokeInvitation(c *fiber.Ctx) error {
	tenantID := utils.ParseUint(c.Params("id"))
	invitationID := utils.ParseUint(c.Params("invitationID"))

	res := ic.DB.Model(&models.Invitation{}).
		Where("id = ? AND tenant_id = ? AND status = ?", invitationID, tenantID, models.InviteStatusPending).
		Update("status", models.InviteStatusRevoked)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to revoke invitation", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No pending invitation found", nil)
	}

	return c.JSON(fiber.Map{"message": "Invitation revoked"})
}

// AcceptInvitation redeems an invitation token for the signed-in user. The
// user's email must match the invited address, and the membership is created
// in the invitation's scope with the invited role.
func (ic *InvitationController) AcceptInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var invitation models.Invitation
	if err := ic.DB.Where("token_hash = ?", models.HashInviteToken(input.Token)).
		First(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invitation not found", nil)
	}

	now := time.Now()
	if !invitation.Acceptable(now) {
		if invitation.Status == models.InviteStatusPending {
			ic.DB.Model(&invitation).Update("status", models.InviteStatusExpired)
		}
		return utils.ErrorResponse(c, fiber.StatusGone, "Invitation is no longer valid", nil)
	}
	if !strings.EqualFold(user.Email, invitation.Email) {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"This invitation was sent to a different email address", nil)
	}

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		if invitation.IsProjectScoped() {
			var project models.Project
			if err := tx.First(&project, *invitation.ProjectID).Error; err != nil {
				return services.NotFound("project not found")
			}
			if !invitation.AcceptableInto(&project, now) {
				return services.NotFound("project not found")
			}

			var existing models.ProjectMembership
			err := tx.Where("project_id = ? AND user_id = ?", *invitation.ProjectID, user.ID).
				First(&existing).Error
			if err == nil {
				return services.Conflict("you are already a member of this project")
			}
			if err := tx.Create(&models.ProjectMembership{
				ProjectID: *invitation.ProjectID,
				UserID:    user.ID,
				Role:      invitation.Role,
			}).Error; err != nil {
				return err
			}
		} else {
			var existing models.TenantMembership
			err := tx.Where("tenant_id = ? AND user_id = ?", invitation.TenantID, user.ID).
				First(&existing).Error
			if err == nil {
				return services.Conflict("you are already a member of this workspace")
			}
			if err := tx.Create(&models.TenantMembership{
				TenantID: invitation.TenantID,
				UserID:   user.ID,
				Role:     invitation.Role,
			}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&invitation).Update("status", models.InviteStatusAccepted).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	utils.LogEvent("invite_accepted", map[string]interface{}{
		"invitation_id": invitation.ID, "user_id": user.ID,
	})
	return c.JSON(fiber.Map{"message": "Invitation accepted"})
}
