package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/utils"
)

type ColumnController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewColumnController(db *gorm.DB, logger *log.Logger) *ColumnController {
	return &ColumnController{DB: db, Logger: logger}
}

// ListColumns returns the custom columns of a project.
func (cc *ColumnController) ListColumns(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var columns []models.CustomColumn
	if err := cc.DB.Where("project_id = ?", projectID).
		Order("created_at ASC").Find(&columns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list columns", err)
	}

	return c.JSON(utils.SuccessResponse(columns))
}

// CreateColumn adds a custom column to a project.
func (cc *ColumnController) CreateColumn(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name    string `json:"name" validate:"required,max=120"`
		Type    string `json:"type" validate:"required,oneof=text number date select"`
		Options string `json:"options" validate:"omitempty,max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Type == models.ColumnSelect && input.Options == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Select columns need options", nil)
	}

	column := models.CustomColumn{
		ProjectID: projectID,
		Name:      input.Name,
		Type:      input.Type,
		Options:   input.Options,
	}
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&column).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "created", "column", column.ID, column.Name)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create column", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(column))
}

// UpdateColumn renames a column or changes its options. The type is fixed
// after creation so stored values stay interpretable.
func (cc *ColumnController) UpdateColumn(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	columnID := utils.ParseUint(c.Params("columnID"))

	var input struct {
		Name    string `json:"name" validate:"omitempty,max=120"`
		Options string `json:"options" validate:"omitempty,max=2000"`
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
	if input.Options != "" {
		updates["options"] = input.Options
	}
	if len(updates) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Nothing to update", nil)
	}

	res := cc.DB.Model(&models.CustomColumn{}).
		Where("id = ? AND project_id = ?", columnID, projectID).
		Updates(updates)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update column", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Column not found", nil)
	}

	return c.JSON(fiber.Map{"message": "Column updated"})
}

// DeleteColumn removes a column and every stored task value for it.
func (cc *ColumnController) DeleteColumn(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	columnID := utils.ParseUint(c.Params("columnID"))

	var column models.CustomColumn
	if err := cc.DB.Where("id = ? AND project_id = ?", columnID, projectID).
		First(&column).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Column not found", nil)
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", column.ID).
			Delete(&models.TaskColumnValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&column).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete column", err)
	}

	return c.JSON(fiber.Map{"message": "Column deleted"})
}

// SetTaskValue upserts a task's value for one custom column.
func (cc *ColumnController) SetTaskValue(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))
	columnID := utils.ParseUint(c.Params("columnID"))

	var input struct {
		Value string `json:"value" validate:"max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	var n int64
	if err := cc.DB.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Count(&n).Error; err != nil || n == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}
	if err := cc.DB.Model(&models.CustomColumn{}).
		Where("id = ? AND project_id = ?", columnID, projectID).
		Count(&n).Error; err != nil || n == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Column not found", nil)
	}

	value := models.TaskColumnValue{TaskID: taskID, ColumnID: columnID}
	if err := cc.DB.Where("task_id = ? AND column_id = ?", taskID, columnID).
		FirstOrCreate(&value).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save value", err)
	}
	if err := cc.DB.Model(&value).Update("value", input.Value).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save value", err)
	}

	BroadcastProjectEvent(projectID, "task_updated", fiber.Map{"id": taskID})
	return c.JSON(utils.SuccessResponse(value))
}
