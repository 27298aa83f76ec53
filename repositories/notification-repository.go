package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/logging"
	"taskboard/models"

	"github.com/gocql/gocql"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// ListByMember returns the member's notifications, newest first.
	ListByMember(ctx context.Context, memberID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, memberID, notificationID string) error
	Close()
}

type CassandraNotificationRepository struct {
	session *gocql.Session
}

// NewNotificationRepo connects to the cluster, creates the notifications
// keyspace and table if needed and returns a repository bound to them.
// hosts is a comma separated list.
func NewNotificationRepo(hosts string) (*CassandraNotificationRepository, error) {
	cluster := gocql.NewCluster(strings.Split(hosts, ",")...)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASSANDRA_CONNECT_FAILED, Description: Failed to connect to Cassandra at %s: %v", hosts, err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	session.Close()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASSANDRA_KEYSPACE_FAILED, Description: Failed to create keyspace: %v", err)
		return nil, err
	}

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASSANDRA_CONNECT_FAILED, Description: Failed to connect to notifications keyspace: %v", err)
		return nil, err
	}

	repo := &CassandraNotificationRepository{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Info("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra notifications keyspace")
	return repo, nil
}

func (r *CassandraNotificationRepository) Close() {
	r.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_SESSION_CLOSED, Description: Cassandra session closed")
}

func (r *CassandraNotificationRepository) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			member_id TEXT,
			id TIMEUUID,
			task_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((member_id), id)
		) WITH CLUSTERING ORDER BY (id DESC)`).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASSANDRA_TABLE_FAILED, Description: Failed to create notifications table: %v", err)
		return err
	}
	return nil
}

func (r *CassandraNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	id := gocql.UUIDFromTime(notification.CreatedAt)
	notification.ID = id.String()

	err := r.session.Query(
		`INSERT INTO notifications (member_id, id, task_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.MemberID, id, notification.TaskID, notification.Message, notification.CreatedAt, notification.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *CassandraNotificationRepository) ListByMember(ctx context.Context, memberID string) ([]models.Notification, error) {
	iter := r.session.Query(
		`SELECT id, member_id, task_id, message, created_at, is_read
		 FROM notifications WHERE member_id = ?`, memberID,
	).WithContext(ctx).Iter()

	notifications := []models.Notification{}
	var (
		id           gocql.UUID
		notification models.Notification
	)
	for iter.Scan(&id, &notification.MemberID, &notification.TaskID,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notification.ID = id.String()
		notifications = append(notifications, notification)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead checks that the row exists first; a Cassandra UPDATE would
// otherwise create it.
func (r *CassandraNotificationRepository) MarkRead(ctx context.Context, memberID, notificationID string) error {
	id, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return models.ErrNotFound
	}

	var isRead bool
	err = r.session.Query(
		`SELECT is_read FROM notifications WHERE member_id = ? AND id = ?`, memberID, id,
	).WithContext(ctx).Scan(&isRead)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find notification: %w", err)
	}
	if isRead {
		return nil
	}

	err = r.session.Query(
		`UPDATE notifications SET is_read = true WHERE member_id = ? AND id = ?`, memberID, id,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// NopNotificationRepository is used when no Cassandra cluster is configured.
type NopNotificationRepository struct{}

func (NopNotificationRepository) Create(context.Context, *models.Notification) error { return nil }

func (NopNotificationRepository) ListByMember(context.Context, string) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (NopNotificationRepository) MarkRead(context.Context, string, string) error {
	return models.ErrNotFound
}

func (NopNotificationRepository) Close() {}
