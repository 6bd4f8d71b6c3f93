package middleware

import (
	"github.com/gofiber/fiber/v2"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

// Locals keys set by the membership guards.
const (
	LocalProjectRole = "projectRole"
	LocalTenantRole  = "tenantRole"
)

// RequireProjectRole resolves the caller's effective role for the project
// in the :id (or :projectID) route param and rejects requests below the
// required minimum. The resolved role is stored in Locals for handlers
// that need finer checks (canManage, last-owner).
func RequireProjectRole(resolver *services.MembershipResolver, required models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)

		projectID := utils.ParseUint(c.Params("projectID"))
		if projectID == 0 {
			projectID = utils.ParseUint(c.Params("id"))
		}

		role, err := resolver.ResolveProjectRole(user, projectID)
		if err != nil {
			return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
		}

		if !models.HasMinimumRole(role, required) {
			return utils.ErrorResponse(c, fiber.StatusForbidden,
				"insufficient role for this action", nil)
		}

		c.Locals(LocalProjectRole, role)
		return c.Next()
	}
}

// RequireTenantRole is the tenant-scope variant of RequireProjectRole.
func RequireTenantRole(resolver *services.MembershipResolver, required models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)

		tenantID := utils.ParseUint(c.Params("tenantID"))
		if tenantID == 0 {
			tenantID = utils.ParseUint(c.Params("id"))
		}

		role, err := resolver.ResolveTenantRole(user, tenantID)
		if err != nil {
			return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
		}

		if !models.HasMinimumRole(role, required) {
			return utils.ErrorResponse(c, fiber.StatusForbidden,
				"insufficient role for this action", nil)
		}

		c.Locals(LocalTenantRole, role)
		return c.Next()
	}
}
