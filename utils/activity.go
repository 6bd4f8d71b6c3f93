package utils

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"stackflow/models"
)

var activityLogger = logrus.New()

func init() {
	activityLogger.SetFormatter(&logrus.JSONFormatter{})
}

// LogEvent emits a structured application event.
func LogEvent(eventType string, fields map[string]interface{}) {
	activityLogger.WithFields(logrus.Fields(fields)).Info(eventType)
}

// RecordActivity writes a project audit row using the given handle. Pass
// the transaction when the activity must commit atomically with its
// mutation, per the persistence contract.
func RecordActivity(tx *gorm.DB, projectID, actorID uint, action, entityType string, entityID uint, detail string) error {
	entry := models.ActivityLog{
		ProjectID:  projectID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	LogEvent("activity", map[string]interface{}{
		"project_id": projectID,
		"actor_id":   actorID,
		"action":     action,
		"entity":     entityType,
		"entity_id":  entityID,
	})
	return nil
}
