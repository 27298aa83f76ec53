package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	tasks         repositories.TaskRepository
	members       repositories.MemberRepository
	projects      repositories.ProjectRepository
	notifications *NotificationService
	now           func() time.Time
}

func NewTaskService(tasks repositories.TaskRepository, members repositories.MemberRepository,
	projects repositories.ProjectRepository, notifications *NotificationService) *TaskService {
	return &TaskService{
		tasks:         tasks,
		members:       members,
		projects:      projects,
		notifications: notifications,
		now:           time.Now,
	}
}

// ParseTaskFilter builds a filter from query parameters. Empty values and
// "all" mean no constraint.
func ParseTaskFilter(status, project string) (models.TaskFilter, error) {
	var filter models.TaskFilter
	if status != "" && status != "all" {
		s := models.TaskStatus(status)
		if !s.Valid() {
			return filter, fmt.Errorf("%w: invalid status %q", models.ErrValidation, status)
		}
		filter.Status = &s
	}
	if project != "" && project != "all" {
		id, err := primitive.ObjectIDFromHex(project)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid project id %q", models.ErrValidation, project)
		}
		filter.Project = &id
	}
	return filter, nil
}

// ListTasks returns the tasks matching filter. A non-admin only ever sees
// tasks assigned to them, whatever the filter says.
func (s *TaskService) ListTasks(ctx context.Context, claims *models.Claims, filter models.TaskFilter) ([]models.Task, error) {
	if err := requireAuthenticated(claims); err != nil {
		return nil, err
	}

	query := models.TaskQuery{Status: filter.Status, Project: filter.Project}
	if !claims.IsAdmin() {
		memberID, err := memberIDOf(claims)
		if err != nil {
			return nil, err
		}
		query.AssignedTo = &memberID
	}

	tasks, err := s.tasks.Find(ctx, query)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_LIST_FAILED, Description: Failed to retrieve tasks: %v", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, claims *models.Claims, in models.NewTask) (*models.Task, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if in.Priority != "" {
		priority = models.ParsePriority(string(in.Priority))
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: invalid priority %q", models.ErrValidation, in.Priority)
		}
	}
	status := models.StatusTodo
	if in.Status != "" {
		status = in.Status
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, in.Status)
		}
	}

	assignedTo := nonZero(in.AssignedTo)
	if err := s.checkMember(ctx, assignedTo); err != nil {
		return nil, err
	}
	project := nonZero(in.Project)
	if err := s.checkProject(ctx, project); err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
		AssignedTo:  assignedTo,
		Project:     project,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate.Ptr()
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate.Ptr()
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		logging.Logger.Errorf("Event ID: TASK_CREATE_FAILED, Description: Failed to create task: %v", err)
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), claims.MemberID)

	if task.AssignedTo != nil {
		s.notifications.TaskAssigned(ctx, task)
	}
	return task, nil
}

// UpdateTask applies a partial update. Concurrent updates are not
// coordinated: the last write wins.
func (s *TaskService) UpdateTask(ctx context.Context, claims *models.Claims, id string, update models.TaskUpdate) (*models.Task, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpdate(ctx, &update); err != nil {
		return nil, err
	}
	if update.Empty() {
		return existing, nil
	}

	task, err := s.tasks.Update(ctx, taskID, update, s.now().UTC())
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logging.Logger.Errorf("Event ID: TASK_UPDATE_FAILED, Description: Failed to update task %s: %v", id, err)
		}
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", id, claims.MemberID)

	if assignee := update.AssignedToRef(); assignee != nil && !existing.AssignedToMember(*assignee) {
		s.notifications.TaskAssigned(ctx, task)
	}
	return task, nil
}

func (s *TaskService) validateUpdate(ctx context.Context, update *models.TaskUpdate) error {
	if update.Title.Set {
		update.Title.Value = strings.TrimSpace(update.Title.Value)
		if update.Title.Value == "" {
			return fmt.Errorf("%w: title cannot be empty", models.ErrValidation)
		}
	}
	if update.Priority.Set {
		update.Priority.Value = models.ParsePriority(string(update.Priority.Value))
		if !update.Priority.Value.Valid() {
			return fmt.Errorf("%w: invalid priority %q", models.ErrValidation, update.Priority.Value)
		}
	}
	if update.Status.Set && !update.Status.Value.Valid() {
		return fmt.Errorf("%w: invalid status %q", models.ErrValidation, update.Status.Value)
	}
	if err := s.checkMember(ctx, update.AssignedToRef()); err != nil {
		return err
	}
	return s.checkProject(ctx, update.ProjectRef())
}

func (s *TaskService) DeleteTask(ctx context.Context, claims *models.Claims, id string) error {
	if err := requireAdmin(claims); err != nil {
		return err
	}
	taskID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id, claims.MemberID)
	return nil
}

func (s *TaskService) checkMember(ctx context.Context, id *primitive.ObjectID) error {
	if id == nil {
		return nil
	}
	_, err := s.members.FindByID(ctx, *id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: assigned member does not exist", models.ErrValidation)
	}
	return err
}

func (s *TaskService) checkProject(ctx context.Context, id *primitive.ObjectID) error {
	if id == nil {
		return nil
	}
	_, err := s.projects.FindByID(ctx, *id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: project does not exist", models.ErrValidation)
	}
	return err
}

func nonZero(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil || id.IsZero() {
		return nil
	}
	return id
}
