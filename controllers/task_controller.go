package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"
)

type TaskController struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Resolver *services.MembershipResolver
}

func NewTaskController(db *gorm.DB, logger *log.Logger, resolver *services.MembershipResolver) *TaskController {
	return &TaskController{DB: db, Logger: logger, Resolver: resolver}
}

// siblingScope narrows a query to one ordering group: tasks sharing a parent,
// or top-level tasks sharing a section.
func siblingScope(db *gorm.DB, projectID uint, sectionID, parentID *uint) *gorm.DB {
	q := db.Model(&models.Task{}).Where("project_id = ?", projectID)
	if parentID != nil {
		return q.Where("parent_id = ?", *parentID)
	}
	q = q.Where("parent_id IS NULL")
	if sectionID != nil {
		return q.Where("section_id = ?", *sectionID)
	}
	return q.Where("section_id IS NULL")
}

// CreateTask creates a top-level task at the head of its section so the
// newest work surfaces first. Existing siblings keep their order indexes.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		Title       string     `json:"title" validate:"required,max=500"`
		Description string     `json:"description" validate:"omitempty,max=10000"`
		SectionID   *uint      `json:"section_id"`
		AssigneeID  *uint      `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.SectionID != nil {
		var n int64
		if err := tc.DB.Model(&models.Section{}).
			Where("id = ? AND project_id = ?", *input.SectionID, projectID).
			Count(&n).Error; err != nil || n == 0 {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Section not found", nil)
		}
	}

	var task models.Task
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var min struct {
			Min float64
			N   int64
		}
		row := siblingScope(tx, projectID, input.SectionID, nil).
			Select("COALESCE(MIN(order_index), 0) AS min, COUNT(*) AS n").
			Scan(&min)
		if row.Error != nil {
			return row.Error
		}

		task = models.Task{
			ProjectID:   projectID,
			SectionID:   input.SectionID,
			Level:       0,
			OrderIndex:  utils.NextHeadPosition(min.Min, min.N > 0),
			Title:       input.Title,
			Description: input.Description,
			AssigneeID:  input.AssigneeID,
			DueDate:     input.DueDate,
			CreatedBy:   user.ID,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "created", "task", task.ID, task.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	BroadcastProjectEvent(projectID, "task_created", task)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// CreateSubtask appends a child under a parent task. Subtasks grow at the
// bottom of their group, unlike top-level tasks which prepend.
func (tc *TaskController) CreateSubtask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	parentID := utils.ParseUint(c.Params("taskID"))

	var input struct {
		Title       string     `json:"title" validate:"required,max=500"`
		Description string     `json:"description" validate:"omitempty,max=10000"`
		AssigneeID  *uint      `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var parent models.Task
	if err := tc.DB.Where("id = ? AND project_id = ?", parentID, projectID).
		First(&parent).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Parent task not found", nil)
	}

	var task models.Task
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var max struct {
			Max float64
			N   int64
		}
		row := siblingScope(tx, projectID, nil, &parent.ID).
			Select("COALESCE(MAX(order_index), 0) AS max, COUNT(*) AS n").
			Scan(&max)
		if row.Error != nil {
			return row.Error
		}

		task = models.Task{
			ProjectID:   projectID,
			SectionID:   parent.SectionID,
			ParentID:    &parent.ID,
			Level:       parent.Level + 1,
			OrderIndex:  utils.NextAppendPosition(max.Max, max.N > 0),
			Title:       input.Title,
			Description: input.Description,
			AssigneeID:  input.AssigneeID,
			DueDate:     input.DueDate,
			CreatedBy:   user.ID,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "created", "subtask", task.ID, task.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create subtask", err)
	}

	BroadcastProjectEvent(projectID, "task_created", task)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks returns the full task tree of a project.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var tasks []models.Task
	if err := tc.DB.Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}

	tree := utils.BuildHierarchy(tasks, nil)
	return c.JSON(utils.SuccessResponse(utils.TransformTasks(tree)))
}

// GetTask returns a single task with its subtree and comments.
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var task models.Task
	if err := tc.DB.Preload("Assignee").Preload("Comments.User").Preload("Values").
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var all []models.Task
	if err := tc.DB.Preload("Assignee").
		Where("project_id = ?", projectID).Find(&all).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load subtasks", err)
	}
	subtasks := utils.BuildHierarchy(all, &task.ID)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"task":     task,
		"subtasks": utils.TransformTasks(subtasks),
	}))
}

// UpdateTask edits the task's own fields. Structural moves go through
// MoveTask.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,max=500"`
		Description *string    `json:"description" validate:"omitempty,max=10000"`
		AssigneeID  *uint      `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
		ClearDue    bool       `json:"clear_due_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.AssigneeID != nil {
		updates["assignee_id"] = *input.AssigneeID
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.ClearDue {
		updates["due_date"] = nil
	}
	if len(updates) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Nothing to update", nil)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "updated", "task", task.ID, task.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	BroadcastProjectEvent(projectID, "task_updated", fiber.Map{"id": task.ID})
	return c.JSON(fiber.Map{"message": "Task updated"})
}

// CompleteTask marks a task done and stamps the completion time.
func (tc *TaskController) CompleteTask(c *fiber.Ctx) error {
	return tc.setCompleted(c, true)
}

// UncompleteTask reopens a task.
func (tc *TaskController) UncompleteTask(c *fiber.Ctx) error {
	return tc.setCompleted(c, false)
}

func (tc *TaskController) setCompleted(c *fiber.Ctx, done bool) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	updates := map[string]interface{}{"completed": done}
	action := "reopened"
	if done {
		now := time.Now()
		updates["completed_at"] = &now
		action = "completed"
	} else {
		updates["completed_at"] = nil
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ? AND project_id = ?", taskID, projectID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.NotFound("task not found")
		}
		return utils.RecordActivity(tx, projectID, user.ID, action, "task", taskID, "")
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	BroadcastProjectEvent(projectID, "task_updated", fiber.Map{"id": taskID, "completed": done})
	return c.JSON(fiber.Map{"message": "Task " + action})
}

// DuplicateTask copies a task directly after the original within its sibling
// group. When the float gap between the original and the next sibling has
// collapsed, the whole group is renumbered to integers first.
func (tc *TaskController) DuplicateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var original models.Task
	if err := tc.DB.Where("id = ? AND project_id = ?", taskID, projectID).
		First(&original).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var clone models.Task
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var siblings []models.Task
		if err := siblingScope(tx, projectID, original.SectionID, original.ParentID).
			Order("order_index ASC").Find(&siblings).Error; err != nil {
			return err
		}

		origAt := -1
		for i, s := range siblings {
			if s.ID == original.ID {
				origAt = i
				break
			}
		}
		if origAt < 0 {
			return services.NotFound("task not found")
		}

		var next float64
		hasNext := origAt+1 < len(siblings)
		if hasNext {
			next = siblings[origAt+1].OrderIndex
		}

		pos, renumber := utils.NextDuplicatePosition(original.OrderIndex, next, hasNext)
		if renumber {
			fresh := utils.RenumberPositions(len(siblings))
			for i, s := range siblings {
				if err := tx.Model(&models.Task{}).Where("id = ?", s.ID).
					Update("order_index", fresh[i]).Error; err != nil {
					return err
				}
			}
			pos = fresh[origAt] + 0.5
		}

		clone = models.Task{
			ProjectID:   original.ProjectID,
			SectionID:   original.SectionID,
			ParentID:    original.ParentID,
			Level:       original.Level,
			OrderIndex:  pos,
			Title:       original.Title + " (copy)",
			Description: original.Description,
			AssigneeID:  original.AssigneeID,
			DueDate:     original.DueDate,
			CreatedBy:   user.ID,
		}
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "duplicated", "task", original.ID, original.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	BroadcastProjectEvent(projectID, "task_created", clone)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(clone))
}

// MoveTask moves a task to another section or parent. Reparenting under the
// task's own descendant is refused; the moved subtree keeps its shape and
// gets its levels recomputed.
func (tc *TaskController) MoveTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	var input struct {
		SectionID *uint `json:"section_id"`
		ParentID  *uint `json:"parent_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND project_id = ?", taskID, projectID).
			First(&task).Error; err != nil {
			return services.NotFound("task not found")
		}

		var all []models.Task
		if err := tx.Where("project_id = ?", projectID).Find(&all).Error; err != nil {
			return err
		}
		descendants := collectDescendants(all, task.ID)

		newLevel := 0
		newSection := input.SectionID
		if input.ParentID != nil {
			if *input.ParentID == task.ID {
				return services.BadRequest("a task cannot be its own parent")
			}
			if descendants[*input.ParentID] {
				return services.BadRequest("cannot move a task under its own subtask")
			}
			var parent models.Task
			if err := tx.Where("id = ? AND project_id = ?", *input.ParentID, projectID).
				First(&parent).Error; err != nil {
				return services.NotFound("parent task not found")
			}
			newLevel = parent.Level + 1
			newSection = parent.SectionID
		} else if input.SectionID != nil {
			var n int64
			if err := tx.Model(&models.Section{}).
				Where("id = ? AND project_id = ?", *input.SectionID, projectID).
				Count(&n).Error; err != nil || n == 0 {
				return services.NotFound("section not found")
			}
		}

		var max struct {
			Max float64
			N   int64
		}
		row := siblingScope(tx, projectID, newSection, input.ParentID).
			Where("id <> ?", task.ID).
			Select("COALESCE(MAX(order_index), 0) AS max, COUNT(*) AS n").
			Scan(&max)
		if row.Error != nil {
			return row.Error
		}

		levelDelta := newLevel - task.Level
		if err := tx.Model(&task).Updates(map[string]interface{}{
			"section_id":  newSection,
			"parent_id":   input.ParentID,
			"level":       newLevel,
			"order_index": utils.NextAppendPosition(max.Max, max.N > 0),
		}).Error; err != nil {
			return err
		}

		// The subtree follows: same section, levels shifted by the delta.
		for id := range descendants {
			if err := tx.Model(&models.Task{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"section_id": newSection,
					"level":      gorm.Expr("level + ?", levelDelta),
				}).Error; err != nil {
				return err
			}
		}

		return utils.RecordActivity(tx, projectID, user.ID, "moved", "task", task.ID, task.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	BroadcastProjectEvent(projectID, "task_moved", fiber.Map{"id": taskID})
	return c.JSON(fiber.Map{"message": "Task moved"})
}

// DeleteTask removes a task together with its whole subtree.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))
	taskID := utils.ParseUint(c.Params("taskID"))

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND project_id = ?", taskID, projectID).
			First(&task).Error; err != nil {
			return services.NotFound("task not found")
		}

		var all []models.Task
		if err := tx.Where("project_id = ?", projectID).Find(&all).Error; err != nil {
			return err
		}
		ids := []uint{task.ID}
		for id := range collectDescendants(all, task.ID) {
			ids = append(ids, id)
		}

		if err := tx.Where("task_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskColumnValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return utils.RecordActivity(tx, projectID, user.ID, "deleted", "task", task.ID, task.Title)
	})
	if err != nil {
		return utils.ErrorResponse(c, services.StatusCode(err), err.Error(), nil)
	}

	BroadcastProjectEvent(projectID, "task_deleted", fiber.Map{"id": taskID})
	return c.JSON(fiber.Map{"message": "Task deleted"})
}

// collectDescendants returns the id set of every task below rootID.
func collectDescendants(tasks []models.Task, rootID uint) map[uint]bool {
	children := make(map[uint][]uint)
	for _, t := range tasks {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t.ID)
		}
	}
	out := make(map[uint]bool)
	queue := children[rootID]
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if out[id] {
			continue
		}
		out[id] = true
		queue = append(queue, children[id]...)
	}
	return out
}
