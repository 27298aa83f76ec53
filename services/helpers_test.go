package services

import (
	"context"
	"testing"
	"time"

	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func init() {
	utils.BcryptCost = bcrypt.MinCost
}

type testEnv struct {
	members       *repositories.MemoryMemberRepository
	projects      *repositories.MemoryProjectRepository
	tasks         *repositories.MemoryTaskRepository
	notifications *repositories.MemoryNotificationRepository
	blacklist     *repositories.MemoryTokenBlacklist

	jwt          *JWTService
	auth         *AuthService
	taskService  *TaskService
	projectSvc   *ProjectService
	memberSvc    *MemberService
	notification *NotificationService

	admin *models.Member
	alice *models.Member
	bob   *models.Member
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		members:       repositories.NewMemoryMemberRepository(),
		projects:      repositories.NewMemoryProjectRepository(),
		tasks:         repositories.NewMemoryTaskRepository(),
		notifications: repositories.NewMemoryNotificationRepository(),
		blacklist:     repositories.NewMemoryTokenBlacklist(),
	}
	clock := func() time.Time { return fixedNow }

	env.jwt = NewJWTService("test-secret")
	env.auth = NewAuthService(env.members, env.jwt, env.blacklist)
	env.notification = NewNotificationService(env.notifications)
	env.notification.now = clock
	env.taskService = NewTaskService(env.tasks, env.members, env.projects, env.notification)
	env.taskService.now = clock
	env.projectSvc = NewProjectService(env.projects, env.tasks, repositories.InlineTransactor{})
	env.projectSvc.now = clock
	env.memberSvc = NewMemberService(env.members, env.tasks, repositories.InlineTransactor{})
	env.memberSvc.now = clock

	env.admin = env.addMember(t, "Admin", "admin@example.com", models.RoleAdmin)
	env.alice = env.addMember(t, "Alice", "alice@example.com", models.RoleUser)
	env.bob = env.addMember(t, "Bob", "bob@example.com", models.RoleUser)
	return env
}

func (env *testEnv) addMember(t *testing.T, name, email string, role models.Role) *models.Member {
	t.Helper()
	digest, err := utils.HashPassword("password")
	require.NoError(t, err)
	member := &models.Member{Name: name, Email: email, Password: digest, Role: role, CreatedAt: fixedNow}
	require.NoError(t, env.members.Create(context.Background(), member))
	return member
}

func (env *testEnv) addTask(t *testing.T, title string, status models.TaskStatus, assignee *models.Member, project *primitive.ObjectID) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    status,
		Project:   project,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssignedTo = &id
	}
	require.NoError(t, env.tasks.Create(context.Background(), task))
	return task
}

func (env *testEnv) addProject(t *testing.T, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, Color: models.DefaultProjectColor, CreatedAt: fixedNow}
	require.NoError(t, env.projects.Create(context.Background(), project))
	return project
}

func claimsFor(member *models.Member) *models.Claims {
	return &models.Claims{MemberID: member.ID.Hex(), Role: member.Role}
}

func ptr[T any](v T) *T {
	return &v
}
