package tui

import (
	"context"
	"testing"
	"time"

	"taskboard/board"
	"taskboard/client"
	"taskboard/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeClient struct {
	token    string
	me       *models.Member
	tasks    []models.Task
	members  []models.Member
	projects []models.Project

	loginErr  error
	updateErr error
	listErr   error

	updates []models.TaskUpdate
	created []models.NewTask
}

func (f *fakeClient) Login(_ context.Context, email, _ string) (*client.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = "token-for-" + email
	return &client.AuthResponse{Token: f.token, User: *f.me}, nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.token = ""
	return nil
}

func (f *fakeClient) Me(context.Context) (*models.Member, error) {
	if f.me == nil {
		return nil, &client.APIError{Status: 401, Message: "Token is not valid"}
	}
	return f.me, nil
}

func (f *fakeClient) ListTasks(context.Context, models.TaskFilter) ([]models.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeClient) ListMembers(context.Context) ([]models.Member, error) {
	return f.members, nil
}

func (f *fakeClient) ListProjects(context.Context) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeClient) UpdateTask(_ context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	f.updates = append(f.updates, update)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID.Hex() == id {
			update.ApplyTo(&f.tasks[i])
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "Task not found"}
}

func (f *fakeClient) CreateTask(_ context.Context, in models.NewTask) (*models.Task, error) {
	f.created = append(f.created, in)
	task := models.Task{ID: primitive.NewObjectID(), Title: in.Title, Status: in.Status, Priority: in.Priority, Tags: in.Tags}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeClient) DeleteTask(context.Context, string) error    { return nil }
func (f *fakeClient) DeleteProject(context.Context, string) error { return nil }
func (f *fakeClient) Token() string                               { return f.token }
func (f *fakeClient) SetToken(token string)                       { f.token = token }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send runs msg through Update and then feeds back the message produced by
// the returned command, if any.
func send(t *testing.T, m *Model, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

type fixture struct {
	api   *fakeClient
	model *Model
	saved []string
	task  models.Task
}

func signedIn(t *testing.T, role models.Role) *fixture {
	t.Helper()
	member := &models.Member{ID: primitive.NewObjectID(), Name: "Alice", Role: role}
	task := models.Task{ID: primitive.NewObjectID(), Title: "Write report", Status: models.StatusTodo, Priority: models.PriorityHigh, Tags: []string{}}

	f := &fixture{
		api:  &fakeClient{token: "saved", me: member, tasks: []models.Task{task}, members: []models.Member{*member}},
		task: task,
	}
	f.model = New(f.api, Options{SaveToken: func(token string) error {
		f.saved = append(f.saved, token)
		return nil
	}})

	cmd := f.model.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, sessionMsg{}, msg)

	loaded := send(t, f.model, msg)
	require.IsType(t, loadedMsg{}, loaded)
	send(t, f.model, loaded)
	require.Equal(t, modeBoard, f.model.mode)
	return f
}

func TestLoginFlow(t *testing.T) {
	api := &fakeClient{me: &models.Member{ID: primitive.NewObjectID(), Name: "Bob", Role: models.RoleUser}}
	var saved []string
	m := New(api, Options{Email: "bob@example.com", SaveToken: func(token string) error {
		saved = append(saved, token)
		return nil
	}})
	m.Init()
	assert.Equal(t, modeLogin, m.mode)

	m.login.password.SetValue("password")
	msg := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, sessionMsg{}, msg)

	loaded := send(t, m, msg)
	assert.Equal(t, modeBoard, m.mode)
	assert.Equal(t, []string{"token-for-bob@example.com"}, saved)
	assert.Empty(t, m.login.password.Value())
	assert.IsType(t, loadedMsg{}, loaded)
}

func TestLoginRequiresBothFields(t *testing.T) {
	m := New(&fakeClient{}, Options{})
	m.Init()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeLogin, m.mode)
	assert.True(t, m.isError)
	assert.Equal(t, 0, m.login.focus)
}

func TestInvalidCredentialsStayOnLogin(t *testing.T) {
	api := &fakeClient{loginErr: &client.APIError{Status: 400, Code: "INVALID_CREDENTIALS", Message: "Invalid Credentials"}}
	m := New(api, Options{Email: "bob@example.com"})
	m.Init()
	m.login.password.SetValue("wrong")

	msg := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, m, msg)

	assert.Equal(t, modeLogin, m.mode)
	assert.Equal(t, "Invalid credentials", m.status)
	assert.Empty(t, m.login.password.Value())
}

func TestMoveCommitsServerCopy(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)

	msg := send(t, f.model, keyRunes("L"))
	require.IsType(t, moveResultMsg{}, msg)

	task, _ := f.model.store.Task(f.task.ID)
	assert.Equal(t, models.StatusInProgress, task.Status, "moved before the server answers")
	assert.True(t, f.model.store.Pending(f.task.ID))
	assert.Equal(t, 1, f.model.column, "cursor follows the card")

	send(t, f.model, msg)
	assert.False(t, f.model.store.Pending(f.task.ID))
	require.Len(t, f.api.updates, 1)
	assert.Equal(t, models.StatusUpdate(models.StatusInProgress), f.api.updates[0])
}

func TestMoveRollsBackOnForbidden(t *testing.T) {
	f := signedIn(t, models.RoleUser)
	f.api.updateErr = &client.APIError{Status: 403, Message: "Access denied. Admin only."}

	msg := send(t, f.model, keyRunes("L"))
	send(t, f.model, msg)

	task, _ := f.model.store.Task(f.task.ID)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.False(t, f.model.store.Pending(f.task.ID))
	assert.Equal(t, modeBoard, f.model.mode, "403 keeps the session")
	assert.Contains(t, f.model.status, "Permission denied")
	assert.Equal(t, "saved", f.api.token)
}

func TestUnauthorizedReturnsToLogin(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)
	f.api.listErr = &client.APIError{Status: 401, Message: "Token is not valid"}

	msg := send(t, f.model, keyRunes("r"))
	send(t, f.model, msg)

	assert.Equal(t, modeLogin, f.model.mode)
	assert.Nil(t, f.model.user)
	assert.Empty(t, f.model.store.Tasks())
	assert.Equal(t, "", f.api.token)
	assert.Equal(t, []string{""}, f.saved)
}

func TestNonAdminCannotOpenTaskForm(t *testing.T) {
	f := signedIn(t, models.RoleUser)

	send(t, f.model, keyRunes("n"))
	assert.Equal(t, modeBoard, f.model.mode)
	assert.Nil(t, f.model.form)
	assert.Contains(t, f.model.status, "admin only")
}

func TestCreateTaskFromForm(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)
	send(t, f.model, keyRunes("l"))
	send(t, f.model, keyRunes("n"))
	require.Equal(t, modeForm, f.model.mode)

	f.model.form.inputs[fieldTitle].SetValue("  Plan sprint ")
	f.model.form.inputs[fieldPriority].SetValue("haute")
	f.model.form.inputs[fieldTags].SetValue("planning, , team")

	msg := send(t, f.model, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.IsType(t, taskSavedMsg{}, msg)
	send(t, f.model, msg)

	require.Len(t, f.api.created, 1)
	created := f.api.created[0]
	assert.Equal(t, "Plan sprint", created.Title)
	assert.Equal(t, models.PriorityHigh, created.Priority)
	assert.Equal(t, models.StatusInProgress, created.Status)
	assert.Equal(t, []string{"planning", "team"}, created.Tags)
	assert.Equal(t, modeBoard, f.model.mode)
}

func TestFormRejectsEmptyTitle(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)
	send(t, f.model, keyRunes("n"))

	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, modeForm, f.model.mode)
	assert.Equal(t, "title is required", f.model.form.err)
}

func TestEditFormSendsOnlyChanges(t *testing.T) {
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	assignee := primitive.NewObjectID()
	task := models.Task{
		ID: primitive.NewObjectID(), Title: "Ship", Priority: models.PriorityLow,
		Status: models.StatusTodo, AssignedTo: &assignee, DueDate: &due, Tags: []string{"a"},
	}
	members := []models.Member{{ID: assignee, Name: "Alice"}}

	form := newTaskForm(&task, task.Status, members, nil, nil)
	form.inputs[fieldDue].SetValue("")
	form.assignee.selectID(nil)

	update, err := form.taskUpdate()
	require.NoError(t, err)
	assert.False(t, update.Title.Set)
	assert.False(t, update.Priority.Set)
	assert.False(t, update.Tags.Set)
	assert.False(t, update.Project.Set)
	assert.True(t, update.DueDate.Set && update.DueDate.Null)
	assert.True(t, update.AssignedTo.Set && update.AssignedTo.Null)
}

func TestFiltersCycle(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)

	send(t, f.model, keyRunes("s"))
	assert.Equal(t, string(models.StatusTodo), f.model.store.StatusFilter())
	send(t, f.model, keyRunes("a"))
	assert.Equal(t, board.FilterUnassigned, f.model.store.MemberFilter())
	send(t, f.model, keyRunes("o"))
	assert.Equal(t, board.SortLowFirst, f.model.store.SortOrder())

	assert.Len(t, f.model.store.Visible(), 1)

	send(t, f.model, keyRunes("a"))
	assert.Equal(t, f.api.me.ID.Hex(), f.model.store.MemberFilter())
	assert.Empty(t, f.model.store.Visible())
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)

	send(t, f.model, keyRunes("d"))
	require.Equal(t, modeConfirm, f.model.mode)

	msg := send(t, f.model, keyRunes("y"))
	require.IsType(t, taskDeletedMsg{}, msg)
	send(t, f.model, msg)

	_, ok := f.model.store.Task(f.task.ID)
	assert.False(t, ok)
}

func TestViewRendersColumns(t *testing.T) {
	f := signedIn(t, models.RoleAdmin)
	out := f.model.View()
	assert.Contains(t, out, "To do")
	assert.Contains(t, out, "In progress")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "1 tasks")
}
