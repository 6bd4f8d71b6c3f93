package controller

import (
	"github.com/gofiber/fiber/v2"

	"stackflow/models"
)

// Role lookups for values stashed by the membership guards.

func projectRoleFromContext(c *fiber.Ctx) models.Role {
	if r, ok := c.Locals("projectRole").(models.Role); ok {
		return r
	}
	return ""
}

func tenantRoleFromContext(c *fiber.Ctx) models.Role {
	if r, ok := c.Locals("tenantRole").(models.Role); ok {
		return r
	}
	return ""
}
