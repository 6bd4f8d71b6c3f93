package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

// A check-then-create losing the race to the unique index must surface as
// Conflict, not as a bare 500.
func TestFromDBErrorDuplicateKeyBecomesConflict(t *testing.T) {
	err := FromDBError(gorm.ErrDuplicatedKey, "user is already a member")
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict kind, got %v", err)
	}
	if StatusCode(err) != http.StatusConflict {
		t.Errorf("expected 409, got %d", StatusCode(err))
	}
	if err.Error() != "user is already a member" {
		t.Errorf("unexpected reason: %q", err.Error())
	}
}

func TestFromDBErrorWrappedDuplicateKey(t *testing.T) {
	wrapped := fmt.Errorf("insert membership: %w", gorm.ErrDuplicatedKey)
	if KindOf(FromDBError(wrapped, "already a member")) != KindConflict {
		t.Error("expected wrapped duplicate-key error to map to conflict")
	}
}

func TestFromDBErrorPassesOtherErrorsThrough(t *testing.T) {
	cause := errors.New("connection reset")
	err := FromDBError(cause, "already a member")
	if err != cause {
		t.Errorf("expected unrelated error unchanged, got %v", err)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("expected 500 for unrelated error, got %d", StatusCode(err))
	}
}
