package board

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column identifiers used by the board UI.
const (
	ColumnTodo       = "todo-list"
	ColumnInProgress = "inprogress-list"
	ColumnDone       = "done-list"
)

const (
	FilterAll        = "all"
	FilterUnassigned = "unassigned"
)

type SortOrder string

const (
	SortHighFirst SortOrder = "desc"
	SortLowFirst  SortOrder = "asc"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownTask   = errors.New("task is not on the board")
)

// StatusForColumn maps a column identifier, with or without its "-list"
// suffix, or a bare status, to a status.
func StatusForColumn(column string) (models.TaskStatus, error) {
	switch column {
	case ColumnTodo:
		return models.StatusTodo, nil
	case ColumnInProgress, "inprogress":
		return models.StatusInProgress, nil
	case ColumnDone:
		return models.StatusDone, nil
	}
	if status := models.TaskStatus(column); status.Valid() {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

// ColumnForStatus is the inverse of StatusForColumn.
func ColumnForStatus(status models.TaskStatus) string {
	switch status {
	case models.StatusInProgress:
		return ColumnInProgress
	case models.StatusDone:
		return ColumnDone
	}
	return ColumnTodo
}

// Move is an optimistic status change awaiting the server's answer.
type Move struct {
	TaskID primitive.ObjectID
	From   models.TaskStatus
	To     models.TaskStatus
	seq    uint64
}

type pendingMove struct {
	from models.TaskStatus
	to   models.TaskStatus
	seq  uint64
}

// Dashboard holds the counters shown above the board.
type Dashboard struct {
	Total      int
	ByStatus   map[models.TaskStatus]int
	ByPriority map[models.Priority]int
	Overdue    int
}

// Store is the client-side board state. It is not safe for concurrent use;
// the owner serialises access (the TUI event loop, or Board's mutex).
type Store struct {
	tasks    []models.Task
	members  []models.Member
	projects []models.Project

	project      string
	statusFilter string
	memberFilter string
	sortOrder    SortOrder

	pending map[primitive.ObjectID]pendingMove
	seq     uint64
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		statusFilter: FilterAll,
		memberFilter: FilterAll,
		sortOrder:    SortHighFirst,
		pending:      map[primitive.ObjectID]pendingMove{},
		now:          time.Now,
	}
}

// ReplaceTasks swaps in a fresh task list. Moves still awaiting the server
// are applied on top of it.
func (s *Store) ReplaceTasks(tasks []models.Task) {
	s.tasks = slices.Clone(tasks)
	for id, p := range s.pending {
		if i := s.indexOf(id); i >= 0 {
			s.tasks[i].Status = p.to
		}
	}
}

// UpsertTask replaces the local copy of task, or appends it.
func (s *Store) UpsertTask(task models.Task) {
	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task
		return
	}
	s.tasks = append(s.tasks, task)
}

func (s *Store) RemoveTask(id primitive.ObjectID) {
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	delete(s.pending, id)
}

// RemoveProject mirrors the server cascade: the project and its tasks go.
func (s *Store) RemoveProject(id primitive.ObjectID) {
	s.projects = slices.DeleteFunc(s.projects, func(p models.Project) bool { return p.ID == id })
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool {
		if t.Project != nil && *t.Project == id {
			delete(s.pending, t.ID)
			return true
		}
		return false
	})
	if s.project == id.Hex() {
		s.project = ""
	}
}

func (s *Store) SetMembers(members []models.Member) { s.members = slices.Clone(members) }

func (s *Store) Members() []models.Member { return slices.Clone(s.members) }

func (s *Store) SetProjects(projects []models.Project) { s.projects = slices.Clone(projects) }

func (s *Store) Projects() []models.Project { return slices.Clone(s.projects) }

// Tasks returns the full, unfiltered task list.
func (s *Store) Tasks() []models.Task { return slices.Clone(s.tasks) }

func (s *Store) Task(id primitive.ObjectID) (models.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// MemberName returns the display name of an assignee, or "" when unassigned.
func (s *Store) MemberName(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	for _, m := range s.members {
		if m.ID == *id {
			return m.Name
		}
	}
	return "unknown member"
}

func (s *Store) ProjectName(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	for _, p := range s.projects {
		if p.ID == *id {
			return p.Name
		}
	}
	return ""
}

// SetProject selects the current project by hex id; "" shows every project.
func (s *Store) SetProject(id string) { s.project = id }

func (s *Store) Project() string { return s.project }

// CurrentProjectID returns the selected project, or nil for all projects.
func (s *Store) CurrentProjectID() *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(s.project)
	if err != nil {
		return nil
	}
	return &id
}

// SetStatusFilter accepts "all" or a status.
func (s *Store) SetStatusFilter(filter string) error {
	if filter != FilterAll && !models.TaskStatus(filter).Valid() {
		return fmt.Errorf("invalid status filter %q", filter)
	}
	s.statusFilter = filter
	return nil
}

func (s *Store) StatusFilter() string { return s.statusFilter }

// SetMemberFilter accepts "all", "unassigned" or a member id.
func (s *Store) SetMemberFilter(filter string) error {
	if filter != FilterAll && filter != FilterUnassigned && !primitive.IsValidObjectID(filter) {
		return fmt.Errorf("invalid member filter %q", filter)
	}
	s.memberFilter = filter
	return nil
}

func (s *Store) MemberFilter() string { return s.memberFilter }

func (s *Store) SetSortOrder(order SortOrder) error {
	if order != SortHighFirst && order != SortLowFirst {
		return fmt.Errorf("invalid sort order %q", order)
	}
	s.sortOrder = order
	return nil
}

func (s *Store) SortOrder() SortOrder { return s.sortOrder }

func (s *Store) matches(t *models.Task) bool {
	if s.project != "" && (t.Project == nil || t.Project.Hex() != s.project) {
		return false
	}
	if s.statusFilter != FilterAll && string(t.Status) != s.statusFilter {
		return false
	}
	switch s.memberFilter {
	case FilterAll:
	case FilterUnassigned:
		if t.AssignedTo != nil {
			return false
		}
	default:
		if t.AssignedTo == nil || t.AssignedTo.Hex() != s.memberFilter {
			return false
		}
	}
	return true
}

// Visible applies the filters to the full task list and sorts the result by
// priority. Ties keep server order.
func (s *Store) Visible() []models.Task {
	visible := []models.Task{}
	for i := range s.tasks {
		if s.matches(&s.tasks[i]) {
			visible = append(visible, s.tasks[i])
		}
	}
	slices.SortStableFunc(visible, func(a, b models.Task) int {
		if s.sortOrder == SortLowFirst {
			return b.Priority.Rank() - a.Priority.Rank()
		}
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return visible
}

// Columns groups the visible tasks by status.
func (s *Store) Columns() map[models.TaskStatus][]models.Task {
	columns := make(map[models.TaskStatus][]models.Task, len(models.Statuses))
	for _, status := range models.Statuses {
		columns[status] = []models.Task{}
	}
	for _, t := range s.Visible() {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns
}

// Dashboard counts the full task list, ignoring filters.
func (s *Store) Dashboard() Dashboard {
	d := Dashboard{
		Total:      len(s.tasks),
		ByStatus:   map[models.TaskStatus]int{},
		ByPriority: map[models.Priority]int{},
	}
	for _, status := range models.Statuses {
		d.ByStatus[status] = 0
	}
	for _, p := range models.Priorities {
		d.ByPriority[p] = 0
	}
	now := s.now()
	for i := range s.tasks {
		d.ByStatus[s.tasks[i].Status]++
		d.ByPriority[s.tasks[i].Priority]++
		if Overdue(&s.tasks[i], now) {
			d.Overdue++
		}
	}
	return d
}

// Overdue reports whether task has a due date in the past and is not done.
func Overdue(task *models.Task, now time.Time) bool {
	return task.Overdue(now)
}

// Pending reports whether a move of the task is awaiting the server.
func (s *Store) Pending(id primitive.ObjectID) bool {
	_, ok := s.pending[id]
	return ok
}

// BeginMove flips the task to the column's status locally and records the
// previous status so the move can be undone.
func (s *Store) BeginMove(id primitive.ObjectID, column string) (Move, error) {
	to, err := StatusForColumn(column)
	if err != nil {
		return Move{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return Move{}, ErrUnknownTask
	}

	s.seq++
	move := Move{TaskID: id, From: s.tasks[i].Status, To: to, seq: s.seq}
	s.pending[id] = pendingMove{from: move.From, to: to, seq: move.seq}
	s.tasks[i].Status = to
	return move, nil
}

// CommitMove drops the shadow of move. A task returned by the server
// replaces the local copy.
func (s *Store) CommitMove(move Move, server *models.Task) {
	s.dropPending(move)
	if server != nil {
		s.UpsertTask(*server)
	}
}

// RollbackMove restores the status the task had before move, unless a later
// move has changed it since.
func (s *Store) RollbackMove(move Move) {
	defer s.dropPending(move)
	i := s.indexOf(move.TaskID)
	if i < 0 {
		return
	}
	if s.tasks[i].Status == move.To {
		s.tasks[i].Status = move.From
	}
}

func (s *Store) dropPending(move Move) {
	if p, ok := s.pending[move.TaskID]; ok && p.seq == move.seq {
		delete(s.pending, move.TaskID)
	}
}

func (s *Store) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}
