package tui

import (
	"context"
	"time"

	"taskboard/board"
	"taskboard/client"
	"taskboard/models"

	tea "github.com/charmbracelet/bubbletea"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is the part of the API client the board needs. *client.Client
// satisfies it.
type Client interface {
	board.API
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.Member, error)
	CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteProject(ctx context.Context, id string) error
	Token() string
	SetToken(token string)
}

var _ Client = (*client.Client)(nil)

type sessionMsg struct {
	member *models.Member
	token  string
}

type loadedMsg struct {
	tasks    []models.Task
	members  []models.Member
	projects []models.Project
}

type moveResultMsg struct {
	move board.Move
	task *models.Task
	err  error
}

type taskSavedMsg struct{ task *models.Task }

type taskDeletedMsg struct{ id primitive.ObjectID }

type projectDeletedMsg struct{ id primitive.ObjectID }

type loggedOutMsg struct{}

type errMsg struct{ err error }

func (m *Model) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *Model) loginCmd(email, password string) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		resp, err := api.Login(ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		return sessionMsg{member: &resp.User, token: resp.Token}
	})
}

func (m *Model) resumeCmd() tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		member, err := api.Me(ctx)
		if err != nil {
			return errMsg{err}
		}
		return sessionMsg{member: member}
	})
}

func (m *Model) logoutCmd() tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		// the local session ends either way
		_ = api.Logout(ctx)
		return loggedOutMsg{}
	})
}

func (m *Model) loadCmd() tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		tasks, err := api.ListTasks(ctx, models.TaskFilter{})
		if err != nil {
			return errMsg{err}
		}
		members, err := api.ListMembers(ctx)
		if err != nil {
			return errMsg{err}
		}
		projects, err := api.ListProjects(ctx)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{tasks: tasks, members: members, projects: projects}
	})
}

func (m *Model) moveCmd(move board.Move) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		task, err := api.UpdateTask(ctx, move.TaskID.Hex(), models.StatusUpdate(move.To))
		return moveResultMsg{move: move, task: task, err: err}
	})
}

func (m *Model) createCmd(in models.NewTask) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		task, err := api.CreateTask(ctx, in)
		if err != nil {
			return errMsg{err}
		}
		return taskSavedMsg{task}
	})
}

func (m *Model) updateCmd(id primitive.ObjectID, update models.TaskUpdate) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		task, err := api.UpdateTask(ctx, id.Hex(), update)
		if err != nil {
			return errMsg{err}
		}
		return taskSavedMsg{task}
	})
}

func (m *Model) deleteTaskCmd(id primitive.ObjectID) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		if err := api.DeleteTask(ctx, id.Hex()); err != nil {
			return errMsg{err}
		}
		return taskDeletedMsg{id}
	})
}

func (m *Model) deleteProjectCmd(id primitive.ObjectID) tea.Cmd {
	api := m.api
	return m.run(func(ctx context.Context) tea.Msg {
		if err := api.DeleteProject(ctx, id.Hex()); err != nil {
			return errMsg{err}
		}
		return projectDeletedMsg{id}
	})
}

const defaultTimeout = 10 * time.Second
