package utils

import (
	"sort"
	"time"

	"stackflow/models"
)

// TaskNode wraps a task with its resolved subtasks. Subtasks is nil (and
// omitted from JSON) when the task has no children; an absent key tells the
// client "no children" without an extra fetch.
type TaskNode struct {
	models.Task
	Subtasks []*TaskNode `json:"subtasks,omitempty"`
}

// BuildHierarchy turns a flat task list into a tree rooted at parentID
// (nil for top-level tasks). Children are indexed by parent in one pass and
// emitted in ascending OrderIndex per sibling group. Parent links are
// assumed acyclic; the mutation path refuses reparenting a task under its
// own descendant, so the builder does no cycle detection.
func BuildHierarchy(tasks []models.Task, parentID *uint) []*TaskNode {
	children := make(map[uint][]int)
	var roots []int
	for i, t := range tasks {
		if t.ParentID == nil {
			if parentID == nil {
				roots = append(roots, i)
			}
		} else if parentID != nil && *t.ParentID == *parentID {
			roots = append(roots, i)
		}
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], i)
		}
	}

	var build func(indices []int) []*TaskNode
	build = func(indices []int) []*TaskNode {
		sort.SliceStable(indices, func(a, b int) bool {
			return tasks[indices[a]].OrderIndex < tasks[indices[b]].OrderIndex
		})
		nodes := make([]*TaskNode, 0, len(indices))
		for _, i := range indices {
			node := &TaskNode{Task: tasks[i]}
			if kids := children[tasks[i].ID]; len(kids) > 0 {
				node.Subtasks = build(kids)
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	return build(roots)
}

// Flatten collects every node of a tree back into a flat task list,
// depth-first in display order.
func Flatten(nodes []*TaskNode) []models.Task {
	var out []models.Task
	for _, n := range nodes {
		out = append(out, n.Task)
		out = append(out, Flatten(n.Subtasks)...)
	}
	return out
}

// TaskView is the UI-shaped projection of a task node.
type TaskView struct {
	ID             uint        `json:"id"`
	SectionID      *uint       `json:"section_id,omitempty"`
	ParentID       *uint       `json:"parent_id,omitempty"`
	Level          int         `json:"level"`
	OrderIndex     float64     `json:"order_index"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	Completed      bool        `json:"completed"`
	AssigneeID     *uint       `json:"assignee_id,omitempty"`
	AssigneeName   string      `json:"assignee_name,omitempty"`
	AssigneeAvatar string      `json:"assignee_avatar,omitempty"`
	SubtaskCount   int         `json:"subtask_count"`
	IsExpanded     bool        `json:"is_expanded"`
	Subtasks       []*TaskView `json:"subtasks,omitempty"`
}

// TransformTask derives the display projection for a node and, recursively,
// its subtasks. It is a presentation layer on top of BuildHierarchy; the
// builder stays reusable without it.
func TransformTask(node *TaskNode) *TaskView {
	view := &TaskView{
		ID:           node.ID,
		SectionID:    node.SectionID,
		ParentID:     node.ParentID,
		Level:        node.Level,
		OrderIndex:   node.OrderIndex,
		Title:        node.Title,
		Description:  node.Description,
		Completed:    node.Completed,
		AssigneeID:   node.AssigneeID,
		SubtaskCount: len(node.Subtasks),
		IsExpanded:   false,
	}
	view.DueDate = node.DueDate
	if node.Assignee != nil {
		view.AssigneeName = node.Assignee.DisplayName()
		if node.Assignee.AvatarURL != nil {
			view.AssigneeAvatar = *node.Assignee.AvatarURL
		}
	}
	for _, sub := range node.Subtasks {
		view.Subtasks = append(view.Subtasks, TransformTask(sub))
	}
	return view
}

// TransformTasks applies TransformTask across a forest.
func TransformTasks(nodes []*TaskNode) []*TaskView {
	views := make([]*TaskView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, TransformTask(n))
	}
	return views
}
