package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists priorities from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// legacy values written by the first, French-language version of the app
var legacyPriorities = map[string]Priority{
	"haute":   PriorityHigh,
	"moyenne": PriorityMedium,
	"basse":   PriorityLow,
	"high":    PriorityHigh,
	"medium":  PriorityMedium,
	"low":     PriorityLow,
}

// ParsePriority normalises a priority label. Unknown labels are returned as-is
// so validation can reject them.
func ParsePriority(s string) Priority {
	if p, ok := legacyPriorities[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return Priority(s)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities, High being 1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePriority(s)
	return nil
}

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Priority    Priority            `json:"priority" bson:"priority"`
	Status      TaskStatus          `json:"status" bson:"status"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo" bson:"assignedTo,omitempty"`
	Project     *primitive.ObjectID `json:"project" bson:"project,omitempty"`
	Tags        []string            `json:"tags" bson:"tags"`
	StartDate   *time.Time          `json:"startDate" bson:"startDate,omitempty"`
	DueDate     *time.Time          `json:"dueDate" bson:"dueDate,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AssignedToMember reports whether the task is assigned to the given member id.
func (t *Task) AssignedToMember(memberID primitive.ObjectID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == memberID
}

// Overdue reports whether an unfinished task is past its due date.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != StatusDone && now.After(*t.DueDate)
}

// TaskFilter holds the optional constraints of a task listing.
type TaskFilter struct {
	Status  *TaskStatus
	Project *primitive.ObjectID
}

// TaskQuery is what reaches the store: the caller's filter plus the
// assignee floor applied for non-admins.
type TaskQuery struct {
	Status     *TaskStatus
	Project    *primitive.ObjectID
	AssignedTo *primitive.ObjectID
}

func (q TaskQuery) Matches(t *Task) bool {
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.Project != nil && (t.Project == nil || *t.Project != *q.Project) {
		return false
	}
	if q.AssignedTo != nil && !t.AssignedToMember(*q.AssignedTo) {
		return false
	}
	return true
}

type NewTask struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description,omitempty"`
	Priority    Priority            `json:"priority,omitempty"`
	Status      TaskStatus          `json:"status,omitempty"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
	Project     *primitive.ObjectID `json:"project,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	StartDate   *Timestamp          `json:"startDate,omitempty"`
	DueDate     *Timestamp          `json:"dueDate,omitempty"`
}

// TaskUpdate is a partial update: only fields present in the request change.
// AssignedTo, Project, StartDate and DueDate accept an explicit null to clear
// the value; for the other fields null is the same as omitting them.
type TaskUpdate struct {
	Title       Optional[string]             `json:"title,omitzero"`
	Description Optional[string]             `json:"description,omitzero"`
	Priority    Optional[Priority]           `json:"priority,omitzero"`
	Status      Optional[TaskStatus]         `json:"status,omitzero"`
	Tags        Optional[[]string]           `json:"tags,omitzero"`
	AssignedTo  Nullable[primitive.ObjectID] `json:"assignedTo,omitzero"`
	Project     Nullable[primitive.ObjectID] `json:"project,omitzero"`
	StartDate   Nullable[Timestamp]          `json:"startDate,omitzero"`
	DueDate     Nullable[Timestamp]          `json:"dueDate,omitzero"`
}

// StatusUpdate builds the status-only update sent when a card changes column.
func StatusUpdate(status TaskStatus) TaskUpdate {
	return TaskUpdate{Status: Some(status)}
}

// Empty reports whether the update touches no field at all.
func (u TaskUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Priority.Set && !u.Status.Set && !u.Tags.Set &&
		!u.AssignedTo.Set && !u.Project.Set && !u.StartDate.Set && !u.DueDate.Set
}

// ApplyTo mutates t in place. An empty object id counts as a clear, matching
// the "not assigned" option of the task form.
func (u TaskUpdate) ApplyTo(t *Task) {
	if u.Title.Set {
		t.Title = u.Title.Value
	}
	if u.Description.Set {
		t.Description = u.Description.Value
	}
	if u.Priority.Set {
		t.Priority = u.Priority.Value
	}
	if u.Status.Set {
		t.Status = u.Status.Value
	}
	if u.Tags.Set {
		t.Tags = u.Tags.Value
	}
	if u.AssignedTo.Set {
		t.AssignedTo = u.AssignedToRef()
	}
	if u.Project.Set {
		t.Project = u.ProjectRef()
	}
	if u.StartDate.Set {
		t.StartDate = u.StartDateRef()
	}
	if u.DueDate.Set {
		t.DueDate = u.DueDateRef()
	}
}

// AssignedToRef is the assignee the update writes; nil means cleared.
func (u TaskUpdate) AssignedToRef() *primitive.ObjectID { return objectIDRef(u.AssignedTo) }

func (u TaskUpdate) ProjectRef() *primitive.ObjectID { return objectIDRef(u.Project) }

func (u TaskUpdate) StartDateRef() *time.Time { return timeRef(u.StartDate) }

func (u TaskUpdate) DueDateRef() *time.Time { return timeRef(u.DueDate) }

func objectIDRef(n Nullable[primitive.ObjectID]) *primitive.ObjectID {
	if n.Null || n.Value.IsZero() {
		return nil
	}
	id := n.Value
	return &id
}

func timeRef(n Nullable[Timestamp]) *time.Time {
	if n.Null {
		return nil
	}
	return n.Value.Ptr()
}

// ClearsAssignee reports whether the update removes the assignee.
func (u TaskUpdate) ClearsAssignee() bool {
	return u.AssignedTo.Set && u.AssignedToRef() == nil
}
