package controller

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"stackflow/models"
)

// dryRunDB builds statements without executing them so scope helpers can be
// checked against the SQL they generate.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// A comment lookup must only match comments whose task belongs to the
// requested project; a comment id from another tenant's project must read
// as missing rather than resolve.
func TestScopeCommentToProjectBindsOwningProject(t *testing.T) {
	var comment models.Comment
	tx := scopeCommentToProject(dryRunDB(t), 7, 42).Find(&comment)
	if tx.Error != nil {
		t.Fatalf("unexpected error: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "JOIN tasks ON tasks.id = comments.task_id") {
		t.Errorf("lookup must join the owning task, got %q", sql)
	}
	if !strings.Contains(sql, "tasks.project_id = ?") {
		t.Errorf("lookup must constrain the owning project, got %q", sql)
	}

	foundProject := false
	for _, v := range tx.Statement.Vars {
		if v == uint(7) {
			foundProject = true
		}
	}
	if !foundProject {
		t.Errorf("expected project id 7 bound in query vars, got %v", tx.Statement.Vars)
	}
}
