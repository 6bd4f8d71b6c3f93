package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type SectionController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewSectionController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *SectionController {
	return &SectionController{DB: db, Logger: logger, Resolver: resolver}
}

// CreateSection inserts a section at the requested index. Siblings at or
// after the index shift up by one so positions stay dense.
func (sc *SectionController) CreateSection(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name     string `json:"name" validate:"required,max=120"`
		Position *int   `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var section models.Section
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Section{}).
			Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}

		pos := int(count)
		if input.Position != nil {
			pos = utils.ClampIndex(*input.Position, int(count))
		}

		if err := tx.Model(&models.Section{}).
			Where("project_id = ? AND position >= ?", projectID, pos).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		section = models.Section{ProjectID: projectID, Name: input.Name, Position: pos}
		if err := tx.Create(&section).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "created", "section", section.ID, section.Name)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create section", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(section))
}

// UpdateSection renames a section.
func (sc *SectionController) UpdateSection(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	sectionID := utils.ParseUint(c.Params("sectionID"))

	var input struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	res := sc.DB.Model(&models.Section{}).
		Where("id = ? AND project_id = ?", sectionID, projectID).
		Update("name", input.Name)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update section", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Section not found", nil)
	}

	return c.JSON(fiber.Map{"message": "Section updated"})
}

// DeleteSection removes a section, closes the position gap and detaches its
// tasks back to the unsectioned pool.
func (sc *SectionController) DeleteSection(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	sectionID := utils.ParseUint(c.Params("sectionID"))

	var section models.Section
	if err := sc.DB.Where("id = ? AND project_id = ?", sectionID, projectID).
		First(&section).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Section not found", nil)
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("section_id = ?", section.ID).
			Update("section_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&section).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Section{}).
			Where("project_id = ? AND position > ?", projectID, section.Position).
			Update("position", gorm.Expr("position - 1")).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "deleted", "section", section.ID, section.Name)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete section", err)
	}

	return c.JSON(fiber.Map{"message": "Section deleted"})
}

// MoveSection moves one section to a new index and shifts only the sections
// between the old and new slots.
func (sc *SectionController) MoveSection(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	sectionID := utils.ParseUint(c.Params("sectionID"))

	var input struct {
		Position int `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.Where("id = ? AND project_id = ?", sectionID, projectID).
			First(&section).Error; err != nil {
			return services.NotFound("section not found")
		}

		var count int64
		if err := tx.Model(&models.Section{}).
			Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		newPos := utils.ClampIndex(input.Position, int(count)-1)

		shift, ok := utils.MoveShift(section.Position, newPos)
		if !ok {
			return nil
		}

		if err := tx.Model(&models.Section{}).
			Where("project_id = ? AND position >= ? AND position <= ?", projectID, shift.Lo, shift.Hi).
			Update("position", gorm.Expr("position + ?", shift.Delta)).Error; err != nil {
			return err
		}
		return tx.Model(&section).Update("position", newPos).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	return c.JSON(fiber.Map{"message": "Section moved"})
}

// ReorderSections applies a full ordering: the request lists every section
// id in the desired order and each gets its list index as position.
func (sc *SectionController) ReorderSections(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		SectionIDs []uint `json:"section_ids" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var count int64
	if err := sc.DB.Model(&models.Section{}).
		Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reorder sections", err)
	}
	if int64(len(input.SectionIDs)) != count {
		return utils.ErrorResponse(c, fiber.StatusBadRequest,
			"Reorder must include every section of the project", nil)
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range input.SectionIDs {
			res := tx.Model(&models.Section{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("position", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return services.BadRequest("section %d does not belong to this project", id)
			}
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	return c.JSON(fiber.Map{"message": "Sections reordered"})
}
