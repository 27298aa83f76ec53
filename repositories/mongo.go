package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	membersCollection  = "members"
	projectsCollection = "projects"
	tasksCollection    = "tasks"
)

// Connect opens a client and pings the primary before returning it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logging.Logger.Infof("Event ID: MONGO_CONNECTED, Description: Connected to MongoDB at %s", uri)
	return client, nil
}

// EnsureIndexes creates the sparse unique email index on members. Sparse lets
// several legacy members exist without an email.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(membersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("create members email index: %w", err)
	}
	_, err = db.Collection(tasksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "project", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

// Transactor runs fn as one unit of work.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor returns a Transactor backed by Mongo sessions. Multi-document
// transactions need a replica set, so when enabled is false fn simply runs
// inline.
func NewTransactor(client *mongo.Client, enabled bool) Transactor {
	return &mongoTransactor{client: client, enabled: enabled}
}

func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
