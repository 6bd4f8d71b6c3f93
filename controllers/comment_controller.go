package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/utils"
)

type CommentController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCommentController(db *gorm.DB, logger *log.Logger) *CommentController {
	return &CommentController{DB: db, Logger: logger}
}

// ListComments returns a task's comments oldest first.
func (cc *CommentController) ListComments(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var n int64
	if err := cc.DB.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Count(&n).Error; err != nil || n == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var comments []models.Comment
	if err := cc.DB.Preload("User").Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list comments", err)
	}

	return c.JSON(utils.SuccessResponse(comments))
}

// CreateComment adds a comment to a task.
func (cc *CommentController) CreateComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var input struct {
		Body string `json:"body" validate:"required,max=10000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var n int64
	if err := cc.DB.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Count(&n).Error; err != nil || n == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	comment := models.Comment{TaskID: taskID, UserID: user.ID, Body: input.Body}
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "commented", "task", taskID, "")
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add comment", err)
	}

	BroadcastProjectEvent(projectID, "comment_created", fiber.Map{"task_id": taskID, "id": comment.ID})
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(comment))
}

// scopeCommentToProject narrows a comment lookup to the project that owns
// its task. Comments outside the requested project read as missing.
func scopeCommentToProject(db *gorm.DB, projectID, commentID uint) *gorm.DB {
	return db.Joins("JOIN tasks ON tasks.id = comments.task_id").
		Where("comments.id = ? AND tasks.project_id = ?", commentID, projectID)
}

// DeleteComment removes a comment. Authors delete their own; admins delete
// anyone's.
func (cc *CommentController) DeleteComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	commentID := utils.ParseUint(c.Params("commentID"))
	actorRole := projectRoleFromContext(c)

	var comment models.Comment
	if err := scopeCommentToProject(cc.DB, projectID, commentID).
		First(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", nil)
	}

	if comment.UserID != user.ID && !models.HasMinimumRole(actorRole, models.RoleAdmin) {
		return utils.ErrorResponse(c, fiber.StatusForbidden,
			"You can only delete your own comments", nil)
	}

	if err := cc.DB.Delete(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete comment", err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
