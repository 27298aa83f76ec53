package board

import (
	"context"
	"errors"
	"testing"

	"taskboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockAPI) ListMembers(ctx context.Context) ([]models.Member, error) {
	args := m.Called(ctx)
	members, _ := args.Get(0).([]models.Member)
	return members, args.Error(1)
}

func (m *MockAPI) ListProjects(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Error(1)
}

func (m *MockAPI) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	args := m.Called(ctx, id, update)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func TestBoardMoveCommits(t *testing.T) {
	task := newTask("ship", models.StatusTodo, models.PriorityHigh)
	api := new(MockAPI)
	api.On("ListTasks", mock.Anything, models.TaskFilter{}).Return([]models.Task{task}, nil)
	api.On("ListMembers", mock.Anything).Return([]models.Member{}, nil)
	api.On("ListProjects", mock.Anything).Return([]models.Project{}, nil)

	done := task
	done.Status = models.StatusDone
	api.On("UpdateTask", mock.Anything, task.ID.Hex(), models.StatusUpdate(models.StatusDone)).Return(&done, nil)

	b := New(api)
	require.NoError(t, b.Refresh(context.Background()))

	got, err := b.Move(context.Background(), task.ID, ColumnDone)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)

	b.View(func(s *Store) {
		stored, ok := s.Task(task.ID)
		require.True(t, ok)
		assert.Equal(t, models.StatusDone, stored.Status)
		assert.False(t, s.Pending(task.ID))
	})
	api.AssertExpectations(t)
}

func TestBoardMoveRollsBackOnFailure(t *testing.T) {
	task := newTask("ship", models.StatusInProgress, models.PriorityHigh)
	api := new(MockAPI)
	api.On("UpdateTask", mock.Anything, task.ID.Hex(), mock.Anything).Return(nil, models.ErrForbidden)

	b := New(api)
	b.View(func(s *Store) { s.ReplaceTasks([]models.Task{task}) })

	_, err := b.Move(context.Background(), task.ID, ColumnDone)
	assert.ErrorIs(t, err, models.ErrForbidden)

	b.View(func(s *Store) {
		stored, _ := s.Task(task.ID)
		assert.Equal(t, models.StatusInProgress, stored.Status)
		assert.False(t, s.Pending(task.ID))
	})
}

func TestBoardRefreshError(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTasks", mock.Anything, models.TaskFilter{}).Return(nil, errors.New("connection refused"))

	b := New(api)
	err := b.Refresh(context.Background())
	assert.ErrorContains(t, err, "load tasks")
	api.AssertNotCalled(t, "ListMembers", mock.Anything)
}
