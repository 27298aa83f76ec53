package repositories

import (
	"context"
	"fmt"

	"taskboard/logging"
)

// MemoryURI selects the in-memory stores instead of MongoDB.
const MemoryURI = "memory"

// Stores bundles the document repositories of one database.
type Stores struct {
	Members  MemberRepository
	Projects ProjectRepository
	Tasks    TaskRepository
	Tx       Transactor

	close func(ctx context.Context) error
}

// Open connects to MongoDB at uri, or builds empty in-memory stores when uri
// is MemoryURI. Indexes are created on connect.
func Open(ctx context.Context, uri, dbName string, useTransactions bool) (*Stores, error) {
	if uri == MemoryURI {
		logging.Logger.Warn("Event ID: MEMORY_STORE, Description: Using in-memory storage, data is lost on exit")
		return &Stores{
			Members:  NewMemoryMemberRepository(),
			Projects: NewMemoryProjectRepository(),
			Tasks:    NewMemoryTaskRepository(),
			Tx:       InlineTransactor{},
		}, nil
	}

	client, err := Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return &Stores{
		Members:  NewMemberRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
		Tx:       NewTransactor(client, useTransactions),
		close:    client.Disconnect,
	}, nil
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
