package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"taskboard/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations back the API when MONGO_URI is "memory" and are
// used as doubles in tests. Every read returns a copy.

type MemoryMemberRepository struct {
	mu      sync.RWMutex
	members []models.Member
}

func NewMemoryMemberRepository() *MemoryMemberRepository {
	return &MemoryMemberRepository{}
}

func (r *MemoryMemberRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.members, func(m models.Member) bool { return m.ID == id })
}

func (r *MemoryMemberRepository) emailTaken(email string, except primitive.ObjectID) bool {
	if email == "" {
		return false
	}
	return slices.ContainsFunc(r.members, func(m models.Member) bool {
		return m.Email == email && m.ID != except
	})
}

func (r *MemoryMemberRepository) Create(_ context.Context, member *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.ID.IsZero() {
		member.ID = primitive.NewObjectID()
	}
	if r.emailTaken(member.Email, member.ID) {
		return models.ErrDuplicateEmail
	}
	r.members = append(r.members, *member)
	return nil
}

func (r *MemoryMemberRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		member := r.members[i]
		return &member, nil
	}
	return nil, models.ErrNotFound
}

func (r *MemoryMemberRepository) FindByEmail(_ context.Context, email string) (*models.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.Email != "" && m.Email == email {
			return &m, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryMemberRepository) List(_ context.Context) ([]models.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := slices.Clone(r.members)
	slices.SortStableFunc(members, func(a, b models.Member) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

func (r *MemoryMemberRepository) Update(_ context.Context, member *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(member.ID)
	if i < 0 {
		return models.ErrNotFound
	}
	if r.emailTaken(member.Email, member.ID) {
		return models.ErrDuplicateEmail
	}
	stored := *member
	if stored.Password == "" {
		stored.Password = r.members[i].Password
	}
	stored.CreatedAt = r.members[i].CreatedAt
	r.members[i] = stored
	return nil
}

func (r *MemoryMemberRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.ErrNotFound
	}
	r.members = slices.Delete(r.members, i, i+1)
	return nil
}

func (r *MemoryMemberRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = nil
	return nil
}

type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects []models.Project
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{}
}

func (r *MemoryProjectRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.projects, func(p models.Project) bool { return p.ID == id })
}

func (r *MemoryProjectRepository) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	r.projects = append(r.projects, *project)
	return nil
}

func (r *MemoryProjectRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		project := r.projects[i]
		return &project, nil
	}
	return nil, models.ErrNotFound
}

func (r *MemoryProjectRepository) FindByName(_ context.Context, name string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

// List returns projects newest first; insertion order breaks ties.
func (r *MemoryProjectRepository) List(_ context.Context) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	projects := make([]models.Project, 0, len(r.projects))
	for i := len(r.projects) - 1; i >= 0; i-- {
		projects = append(projects, r.projects[i])
	}
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return projects, nil
}

func (r *MemoryProjectRepository) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(project.ID)
	if i < 0 {
		return models.ErrNotFound
	}
	stored := *project
	stored.CreatedAt = r.projects[i].CreatedAt
	r.projects[i] = stored
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.ErrNotFound
	}
	r.projects = slices.Delete(r.projects, i, i+1)
	return nil
}

func (r *MemoryProjectRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = nil
	return nil
}

type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []models.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{}
}

func (r *MemoryTaskRepository) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(r.tasks, func(t models.Task) bool { return t.ID == id })
}

func cloneTask(t models.Task) models.Task {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	r.tasks = append(r.tasks, cloneTask(*task))
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		task := cloneTask(r.tasks[i])
		return &task, nil
	}
	return nil, models.ErrNotFound
}

func (r *MemoryTaskRepository) Find(_ context.Context, query models.TaskQuery) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := []models.Task{}
	for i := range r.tasks {
		if query.Matches(&r.tasks[i]) {
			tasks = append(tasks, cloneTask(r.tasks[i]))
		}
	}
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, id primitive.ObjectID, update models.TaskUpdate, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, models.ErrNotFound
	}
	update.ApplyTo(&r.tasks[i])
	r.tasks[i].UpdatedAt = now
	r.tasks[i] = cloneTask(r.tasks[i])
	task := cloneTask(r.tasks[i])
	return &task, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.ErrNotFound
	}
	r.tasks = slices.Delete(r.tasks, i, i+1)
	return nil
}

func (r *MemoryTaskRepository) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.tasks)
	r.tasks = slices.DeleteFunc(r.tasks, func(t models.Task) bool {
		return t.Project != nil && *t.Project == projectID
	})
	return int64(before - len(r.tasks)), nil
}

func (r *MemoryTaskRepository) UnassignMember(_ context.Context, memberID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.tasks {
		if r.tasks[i].AssignedToMember(memberID) {
			r.tasks[i].AssignedTo = nil
			r.tasks[i].UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (r *MemoryTaskRepository) AssignProjectWhereMissing(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.tasks {
		if r.tasks[i].Project == nil {
			id := projectID
			r.tasks[i].Project = &id
			n++
		}
	}
	return n, nil
}

func (r *MemoryTaskRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = nil
	return nil
}

// InlineTransactor runs the unit of work without a transaction.
type InlineTransactor struct{}

func (InlineTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string][]models.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{notifications: map[string][]models.Notification{}}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = uuid.NewString()
	list := r.notifications[notification.MemberID]
	r.notifications[notification.MemberID] = append([]models.Notification{*notification}, list...)
	return nil
}

func (r *MemoryNotificationRepository) ListByMember(_ context.Context, memberID string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := slices.Clone(r.notifications[memberID])
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, memberID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.notifications[memberID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *MemoryNotificationRepository) Close() {}

type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{revoked: map[string]time.Time{}, now: time.Now}
}

func (b *MemoryTokenBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = b.now().Add(ttl)
	return nil
}

func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, tokenID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	expires, ok := b.revoked[tokenID]
	if !ok {
		return false
	}
	if b.now().After(expires) {
		delete(b.revoked, tokenID)
		return false
	}
	return true
}

var (
	_ MemberRepository       = (*MemoryMemberRepository)(nil)
	_ ProjectRepository      = (*MemoryProjectRepository)(nil)
	_ TaskRepository         = (*MemoryTaskRepository)(nil)
	_ NotificationRepository = (*MemoryNotificationRepository)(nil)
	_ NotificationRepository = NopNotificationRepository{}
	_ NotificationRepository = (*CassandraNotificationRepository)(nil)
	_ TokenBlacklist         = (*MemoryTokenBlacklist)(nil)
	_ TokenBlacklist         = (*RedisTokenBlacklist)(nil)
	_ Transactor             = InlineTransactor{}
)
