package repositories

import (
	"context"
	"testing"
	"time"

	"taskboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryMemberRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMemberRepository()

	require.NoError(t, repo.Create(ctx, &models.Member{Name: "A", Email: "a@example.com"}))
	err := repo.Create(ctx, &models.Member{Name: "B", Email: "a@example.com"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	// members without email never collide
	require.NoError(t, repo.Create(ctx, &models.Member{Name: "C"}))
	require.NoError(t, repo.Create(ctx, &models.Member{Name: "D"}))

	_, err = repo.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryMemberRepository_UpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMemberRepository()
	member := &models.Member{Name: "A", Email: "a@example.com", Password: "digest"}
	require.NoError(t, repo.Create(ctx, member))

	require.NoError(t, repo.Update(ctx, &models.Member{ID: member.ID, Name: "A2", Role: models.RoleAdmin}))

	stored, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", stored.Name)
	assert.Equal(t, "digest", stored.Password)
	assert.Empty(t, stored.Email)

	assert.ErrorIs(t, repo.Update(ctx, &models.Member{ID: primitive.NewObjectID()}), models.ErrNotFound)
}

func TestMemoryProjectRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.Project{Name: "old", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &models.Project{Name: "new", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Project{Name: "mid", CreatedAt: base.Add(time.Minute)}))

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "new", projects[0].Name)
	assert.Equal(t, "mid", projects[1].Name)
	assert.Equal(t, "old", projects[2].Name)
}

func TestMemoryTaskRepository_ProjectOperations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	project := primitive.NewObjectID()
	other := primitive.NewObjectID()

	require.NoError(t, repo.Create(ctx, &models.Task{Title: "a", Project: &project}))
	require.NoError(t, repo.Create(ctx, &models.Task{Title: "b", Project: &other}))
	require.NoError(t, repo.Create(ctx, &models.Task{Title: "c"}))

	n, err := repo.AssignProjectWhereMissing(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByProject(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	remaining, err := repo.Find(ctx, models.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Title)
}

func TestMemoryTaskRepository_UpdateReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	task := &models.Task{Title: "a", Tags: []string{"x"}}
	require.NoError(t, repo.Create(ctx, task))

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, task.ID, models.StatusUpdate(models.StatusDone), now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)

	updated.Tags[0] = "mutated"
	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, stored.Tags)

	_, err = repo.Update(ctx, primitive.NewObjectID(), models.StatusUpdate(models.StatusDone), now)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryTokenBlacklist_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewMemoryTokenBlacklist()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "jti", time.Hour))
	assert.True(t, b.IsRevoked(ctx, "jti"))
	assert.False(t, b.IsRevoked(ctx, "other"))

	now = now.Add(2 * time.Hour)
	assert.False(t, b.IsRevoked(ctx, "jti"))
}

func TestRedisTokenBlacklist_NilIsEmpty(t *testing.T) {
	ctx := context.Background()
	b := NewRedisTokenBlacklist("", "", 0)
	assert.Nil(t, b)

	assert.NoError(t, b.Revoke(ctx, "jti", time.Hour))
	assert.False(t, b.IsRevoked(ctx, "jti"))
	assert.NoError(t, b.Close())
}

func TestMemoryNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotificationRepository()

	first := &models.Notification{MemberID: "m1", Message: "first"}
	second := &models.Notification{MemberID: "m1", Message: "second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByMember(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	require.NoError(t, repo.MarkRead(ctx, "m1", first.ID))
	assert.ErrorIs(t, repo.MarkRead(ctx, "m2", first.ID), models.ErrNotFound)

	list, _ = repo.ListByMember(ctx, "m1")
	assert.True(t, list[1].IsRead)
}
