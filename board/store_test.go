package board

import (
	"testing"
	"time"

	"taskboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTask(title string, status models.TaskStatus, priority models.Priority) models.Task {
	return models.Task{
		ID:       primitive.NewObjectID(),
		Title:    title,
		Status:   status,
		Priority: priority,
		Tags:     []string{},
	}
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestStatusForColumn(t *testing.T) {
	cases := map[string]models.TaskStatus{
		"todo-list":       models.StatusTodo,
		"inprogress-list": models.StatusInProgress,
		"done-list":       models.StatusDone,
		"inprogress":      models.StatusInProgress,
	}
	for column, want := range cases {
		got, err := StatusForColumn(column)
		require.NoError(t, err, column)
		assert.Equal(t, want, got, column)
		if column != "inprogress" {
			assert.Equal(t, column, ColumnForStatus(want))
		}
	}

	_, err := StatusForColumn("backlog")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMoveRollbackRestoresPreviousStatus(t *testing.T) {
	s := NewStore()
	task := newTask("write docs", models.StatusTodo, models.PriorityMedium)
	s.ReplaceTasks([]models.Task{task})

	move, err := s.BeginMove(task.ID, ColumnDone)
	require.NoError(t, err)
	assert.True(t, s.Pending(task.ID))

	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusDone, got.Status)

	s.RollbackMove(move)
	got, _ = s.Task(task.ID)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.False(t, s.Pending(task.ID))
}

func TestRollbackDoesNotClobberLaterMove(t *testing.T) {
	s := NewStore()
	task := newTask("review", models.StatusTodo, models.PriorityHigh)
	s.ReplaceTasks([]models.Task{task})

	first, err := s.BeginMove(task.ID, ColumnInProgress)
	require.NoError(t, err)
	second, err := s.BeginMove(task.ID, ColumnDone)
	require.NoError(t, err)

	s.RollbackMove(first)
	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.True(t, s.Pending(task.ID), "the later move is still in flight")

	s.CommitMove(second, nil)
	assert.False(t, s.Pending(task.ID))
}

func TestReplaceTasksKeepsPendingMove(t *testing.T) {
	s := NewStore()
	task := newTask("triage", models.StatusTodo, models.PriorityMedium)
	s.ReplaceTasks([]models.Task{task})

	move, err := s.BeginMove(task.ID, "inprogress")
	require.NoError(t, err)

	// A refresh answered before the move still reports the old status.
	stale := task
	stale.Title = "triage inbox"
	s.ReplaceTasks([]models.Task{stale})

	got, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "triage inbox", got.Title)

	s.RollbackMove(move)
	got, _ = s.Task(task.ID)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.False(t, s.Pending(task.ID))
}

func TestCommitMoveTakesServerCopy(t *testing.T) {
	s := NewStore()
	task := newTask("deploy", models.StatusTodo, models.PriorityLow)
	s.ReplaceTasks([]models.Task{task})

	move, err := s.BeginMove(task.ID, ColumnDone)
	require.NoError(t, err)

	server := task
	server.Status = models.StatusDone
	server.Title = "deploy v2"
	s.CommitMove(move, &server)

	got, _ := s.Task(task.ID)
	assert.Equal(t, "deploy v2", got.Title)
	assert.Equal(t, models.StatusDone, got.Status)
}

func TestBeginMoveErrors(t *testing.T) {
	s := NewStore()
	task := newTask("a", models.StatusTodo, models.PriorityLow)
	s.ReplaceTasks([]models.Task{task})

	_, err := s.BeginMove(primitive.NewObjectID(), ColumnDone)
	assert.ErrorIs(t, err, ErrUnknownTask)

	_, err = s.BeginMove(task.ID, "nowhere")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusTodo, got.Status)
}

func TestVisibleFiltersAndSorts(t *testing.T) {
	alice := primitive.NewObjectID()
	project := primitive.NewObjectID()

	low := newTask("low", models.StatusTodo, models.PriorityLow)
	high := newTask("high", models.StatusTodo, models.PriorityHigh)
	medium := newTask("medium", models.StatusDone, models.PriorityMedium)
	high2 := newTask("high2", models.StatusInProgress, models.PriorityHigh)
	high2.AssignedTo = &alice
	high2.Project = &project
	medium.AssignedTo = &alice

	s := NewStore()
	s.ReplaceTasks([]models.Task{low, high, medium, high2})

	assert.Equal(t, []string{"high", "high2", "medium", "low"}, titles(s.Visible()))

	require.NoError(t, s.SetSortOrder(SortLowFirst))
	assert.Equal(t, []string{"low", "medium", "high", "high2"}, titles(s.Visible()))
	require.NoError(t, s.SetSortOrder(SortHighFirst))

	require.NoError(t, s.SetStatusFilter(string(models.StatusTodo)))
	assert.Equal(t, []string{"high", "low"}, titles(s.Visible()))
	require.NoError(t, s.SetStatusFilter(FilterAll))

	require.NoError(t, s.SetMemberFilter(alice.Hex()))
	assert.Equal(t, []string{"high2", "medium"}, titles(s.Visible()))

	require.NoError(t, s.SetMemberFilter(FilterUnassigned))
	assert.Equal(t, []string{"high", "low"}, titles(s.Visible()))
	require.NoError(t, s.SetMemberFilter(FilterAll))

	s.SetProject(project.Hex())
	assert.Equal(t, []string{"high2"}, titles(s.Visible()))

	assert.Error(t, s.SetStatusFilter("blocked"))
	assert.Error(t, s.SetMemberFilter("bob"))
	assert.Error(t, s.SetSortOrder("sideways"))
}

func TestColumnsAlwaysHaveEveryStatus(t *testing.T) {
	s := NewStore()
	s.ReplaceTasks([]models.Task{newTask("only", models.StatusDone, models.PriorityLow)})

	columns := s.Columns()
	assert.Len(t, columns, 3)
	assert.Empty(t, columns[models.StatusTodo])
	assert.Empty(t, columns[models.StatusInProgress])
	assert.Equal(t, []string{"only"}, titles(columns[models.StatusDone]))
}

func TestDashboardIgnoresFilters(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	late := newTask("late", models.StatusTodo, models.PriorityHigh)
	late.DueDate = &yesterday
	finished := newTask("finished", models.StatusDone, models.PriorityLow)
	finished.DueDate = &yesterday

	s := NewStore()
	s.now = func() time.Time { return now }
	s.ReplaceTasks([]models.Task{late, finished, newTask("fresh", models.StatusInProgress, models.PriorityHigh)})
	require.NoError(t, s.SetStatusFilter(string(models.StatusDone)))

	d := s.Dashboard()
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 1, d.Overdue)
	assert.Equal(t, 1, d.ByStatus[models.StatusTodo])
	assert.Equal(t, 1, d.ByStatus[models.StatusInProgress])
	assert.Equal(t, 2, d.ByPriority[models.PriorityHigh])
	assert.Equal(t, 0, d.ByPriority[models.PriorityMedium])
}

func TestRemoveProjectDropsItsTasks(t *testing.T) {
	project := models.Project{ID: primitive.NewObjectID(), Name: "Website"}
	inside := newTask("inside", models.StatusTodo, models.PriorityLow)
	inside.Project = &project.ID
	outside := newTask("outside", models.StatusTodo, models.PriorityLow)

	s := NewStore()
	s.SetProjects([]models.Project{project})
	s.ReplaceTasks([]models.Task{inside, outside})
	s.SetProject(project.ID.Hex())

	s.RemoveProject(project.ID)

	assert.Empty(t, s.Projects())
	assert.Equal(t, []string{"outside"}, titles(s.Tasks()))
	assert.Equal(t, "", s.Project())
}

func TestMemberName(t *testing.T) {
	alice := models.Member{ID: primitive.NewObjectID(), Name: "Alice"}
	s := NewStore()
	s.SetMembers([]models.Member{alice})

	assert.Equal(t, "Alice", s.MemberName(&alice.ID))
	assert.Equal(t, "", s.MemberName(nil))

	other := primitive.NewObjectID()
	assert.Equal(t, "unknown member", s.MemberName(&other))
}
