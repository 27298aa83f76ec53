package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
)

type ProjectService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	tx       repositories.Transactor
	now      func() time.Time
}

func NewProjectService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, tx repositories.Transactor) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, tx: tx, now: time.Now}
}

func (s *ProjectService) ListProjects(ctx context.Context, claims *models.Claims) ([]models.Project, error) {
	if err := requireAuthenticated(claims); err != nil {
		return nil, err
	}
	return s.projects.List(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, claims *models.Claims, id string) (*models.Project, error) {
	if err := requireAuthenticated(claims); err != nil {
		return nil, err
	}
	projectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, projectID)
}

func (s *ProjectService) CreateProject(ctx context.Context, claims *models.Claims, in models.NewProject) (*models.Project, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultProjectColor
	}
	now := s.now().UTC()
	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CREATE_FAILED, Description: Failed to create project: %v", err)
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created", project.ID.Hex())
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, claims *models.Claims, id string, update models.ProjectUpdate) (*models.Project, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	projectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if update.Name.Set {
		update.Name.Value = strings.TrimSpace(update.Name.Value)
		if update.Name.Value == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrValidation)
		}
	}
	if update.Color.Set && strings.TrimSpace(update.Color.Value) == "" {
		update.Color.Value = models.DefaultProjectColor
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	update.ApplyTo(project)
	project.UpdatedAt = s.now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project and every task that references it. Tasks
// go first so an interrupted delete never leaves tasks pointing at a missing
// project.
func (s *ProjectService) DeleteProject(ctx context.Context, claims *models.Claims, id string) error {
	if err := requireAdmin(claims); err != nil {
		return err
	}
	projectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return err
	}

	var removed int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.tasks.DeleteByProject(ctx, projectID)
		if err != nil {
			return err
		}
		removed = n
		return s.projects.Delete(ctx, projectID)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_DELETE_FAILED, Description: Failed to delete project %s: %v", id, err)
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted with %d tasks", id, removed)
	return nil
}
