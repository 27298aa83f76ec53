package board

import (
	"context"
	"fmt"
	"sync"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// API is the part of the HTTP client the board needs.
type API interface {
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
}

// Board drives a Store against the API and guards it with a mutex. The lock
// is not held during network calls, so concurrent moves are not coordinated:
// whichever request the server handles last wins.
type Board struct {
	mu    sync.Mutex
	store *Store
	api   API
}

func New(api API) *Board {
	return &Board{store: NewStore(), api: api}
}

// View runs fn with exclusive access to the store.
func (b *Board) View(fn func(*Store)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.store)
}

// Refresh re-fetches tasks, members and projects.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx, models.TaskFilter{})
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	members, err := b.api.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	projects, err := b.api.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.ReplaceTasks(tasks)
	b.store.SetMembers(members)
	b.store.SetProjects(projects)
	return nil
}

// Move changes the task's column optimistically, sends the status to the
// server and commits or rolls back depending on the answer.
func (b *Board) Move(ctx context.Context, id primitive.ObjectID, column string) (*models.Task, error) {
	b.mu.Lock()
	move, err := b.store.BeginMove(id, column)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	task, err := b.api.UpdateTask(ctx, id.Hex(), models.StatusUpdate(move.To))

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.store.RollbackMove(move)
		return nil, err
	}
	b.store.CommitMove(move, task)
	return task, nil
}
