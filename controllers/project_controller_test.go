package controller

import (
	"strings"
	"testing"
)

// The restore update must only match trashed projects of the tenant the
// caller was authorized for; a project id from another tenant must not be
// restorable through it.
func TestScopeTrashedProjectBindsTenant(t *testing.T) {
	tx := scopeTrashedProject(dryRunDB(t), 3, 9).Update("deleted_at", nil)
	if tx.Error != nil {
		t.Fatalf("unexpected error: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "tenant_id = ?") {
		t.Errorf("restore must stay inside the authorized tenant, got %q", sql)
	}
	if !strings.Contains(sql, "deleted_at IS NOT NULL") {
		t.Errorf("restore must only match trashed rows, got %q", sql)
	}

	foundTenant := false
	for _, v := range tx.Statement.Vars {
		if v == uint(3) {
			foundTenant = true
		}
	}
	if !foundTenant {
		t.Errorf("expected tenant id 3 bound in query vars, got %v", tx.Statement.Vars)
	}
}
