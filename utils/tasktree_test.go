package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"stackflow/models"
)

func task(id uint, parentID *uint, level int, order float64, title string) models.Task {
	t := models.Task{
		ParentID:   parentID,
		Level:      level,
		OrderIndex: order,
		Title:      title,
	}
	t.ID = id
	return t
}

func ptr(v uint) *uint { return &v }

// sampleTasks builds, in shuffled input order:
//
//	design (1)
//	  mockups (2)
//	    icons (4)
//	  review (3)
//	launch (5)
func sampleTasks() []models.Task {
	return []models.Task{
		task(4, ptr(2), 2, 0, "icons"),
		task(5, nil, 0, 1, "launch"),
		task(2, ptr(1), 1, 0, "mockups"),
		task(1, nil, 0, 0, "design"),
		task(3, ptr(1), 1, 1, "review"),
	}
}

func TestBuildHierarchyShape(t *testing.T) {
	tree := BuildHierarchy(sampleTasks(), nil)

	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if tree[0].Title != "design" || tree[1].Title != "launch" {
		t.Errorf("unexpected root order: %s, %s", tree[0].Title, tree[1].Title)
	}

	design := tree[0]
	if len(design.Subtasks) != 2 {
		t.Fatalf("expected 2 subtasks under design, got %d", len(design.Subtasks))
	}
	if design.Subtasks[0].Title != "mockups" || design.Subtasks[1].Title != "review" {
		t.Errorf("unexpected subtask order: %s, %s",
			design.Subtasks[0].Title, design.Subtasks[1].Title)
	}
	if len(design.Subtasks[0].Subtasks) != 1 || design.Subtasks[0].Subtasks[0].Title != "icons" {
		t.Error("expected icons nested under mockups")
	}
}

func TestBuildHierarchySiblingsSortedByOrderIndex(t *testing.T) {
	tasks := []models.Task{
		task(1, nil, 0, 2.5, "third"),
		task(2, nil, 0, -1, "first"),
		task(3, nil, 0, 0.5, "second"),
	}
	tree := BuildHierarchy(tasks, nil)

	got := []string{tree[0].Title, tree[1].Title, tree[2].Title}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildHierarchySubtree(t *testing.T) {
	subtree := BuildHierarchy(sampleTasks(), ptr(1))

	if len(subtree) != 2 {
		t.Fatalf("expected 2 children of task 1, got %d", len(subtree))
	}
	if subtree[0].Title != "mockups" {
		t.Errorf("expected mockups first, got %s", subtree[0].Title)
	}
}

func TestBuildHierarchyEmptyInput(t *testing.T) {
	if tree := BuildHierarchy(nil, nil); len(tree) != 0 {
		t.Errorf("expected empty tree, got %d nodes", len(tree))
	}
}

func TestFlattenRoundTripKeepsEveryTask(t *testing.T) {
	tasks := sampleTasks()
	flat := Flatten(BuildHierarchy(tasks, nil))

	if len(flat) != len(tasks) {
		t.Fatalf("expected %d tasks after round trip, got %d", len(tasks), len(flat))
	}
	seen := make(map[uint]bool)
	for _, tk := range flat {
		seen[tk.ID] = true
	}
	for _, tk := range tasks {
		if !seen[tk.ID] {
			t.Errorf("task %d lost in round trip", tk.ID)
		}
	}
}

func TestLeafNodeOmitsSubtasksKey(t *testing.T) {
	tree := BuildHierarchy([]models.Task{task(1, nil, 0, 0, "solo")}, nil)

	raw, err := json.Marshal(tree[0])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(raw), "subtasks") {
		t.Errorf("leaf task must not carry a subtasks key: %s", raw)
	}
}

func TestTransformTask(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	tk := task(1, nil, 0, 0, "design")
	tk.Assignee = &models.User{Email: "dana@example.com", AvatarURL: &avatar}

	tree := BuildHierarchy([]models.Task{tk, task(2, ptr(1), 1, 0, "mockups")}, nil)
	view := TransformTask(tree[0])

	if view.SubtaskCount != 1 {
		t.Errorf("expected subtask count 1, got %d", view.SubtaskCount)
	}
	if view.IsExpanded {
		t.Error("new views must start collapsed")
	}
	if view.AssigneeName != "dana" {
		t.Errorf("expected assignee name from email local part, got %q", view.AssigneeName)
	}
	if view.AssigneeAvatar != avatar {
		t.Errorf("expected avatar %q, got %q", avatar, view.AssigneeAvatar)
	}
	if len(view.Subtasks) != 1 || view.Subtasks[0].Title != "mockups" {
		t.Error("expected nested view for mockups")
	}
}
