package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"stackflow/config"
	"stackflow/models"
	"stackflow/utils"
)

// TrashWorker permanently deletes projects whose trash retention window has
// elapsed.
type TrashWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTrashWorker(db *gorm.DB, logger *log.Logger) *TrashWorker {
	return &TrashWorker{
		DB:     db,
		Logger: logger,
	}
}

func (tw *TrashWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	tw.Logger.Println("Trash worker started")

	interval, err := time.ParseDuration(config.AppConfig.TrashSweepInterval)
	if err != nil || interval <= 0 {
		interval = 24 * time.Hour
	}

	// One sweep at startup, then on the interval.
	tw.purgeExpired()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tw.Logger.Println("Trash worker shutting down...")
			return
		case <-ticker.C:
			tw.purgeExpired()
		}
	}
}

func (tw *TrashWorker) purgeExpired() {
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.TrashRetentionDays)

	var expired []models.Project
	if err := tw.DB.Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
		Find(&expired).Error; err != nil {
		tw.Logger.Printf("Failed to list expired projects: %v", err)
		return
	}

	for _, project := range expired {
		err := tw.purgeProject(project, cutoff)
		switch {
		case err == gorm.ErrRecordNotFound:
			// Restored between the listing and the delete; leave it alone.
			tw.Logger.Printf("Project %d restored during sweep, skipping", project.ID)
		case err != nil:
			tw.Logger.Printf("Failed to purge project %d: %v", project.ID, err)
		}
	}
}

// purgeProject hard-deletes one project and its dependent rows. The final
// delete is conditional on the deletion timestamp so a concurrent restore
// wins: if the row was restored since we listed it, nothing matches and the
// child deletes roll back.
func (tw *TrashWorker) purgeProject(project models.Project, cutoff time.Time) error {
	return tw.DB.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", project.ID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskColumnValue{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.CustomColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}

		res := tx.
			Where("id = ? AND deleted_at IS NOT NULL AND deleted_at <= ?", project.ID, cutoff).
			Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		utils.LogEvent("project_purged", map[string]interface{}{
			"project_id": project.ID, "tenant_id": project.TenantID,
		})
		return nil
	})
}
