package migrations

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

// Fixture is a dataset to seed. Tasks reference members by email and
// projects by name.
type Fixture struct {
	Members  []FixtureMember  `yaml:"members"`
	Projects []FixtureProject `yaml:"projects"`
	Tasks    []FixtureTask    `yaml:"tasks"`
}

type FixtureMember struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type FixtureProject struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type FixtureTask struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority"`
	Status      string   `yaml:"status"`
	Assignee    string   `yaml:"assignee"`
	Project     string   `yaml:"project"`
	Tags        []string `yaml:"tags"`
	StartDate   string   `yaml:"startDate"`
	DueDate     string   `yaml:"dueDate"`
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// SeedReport counts the records written by Seed.
type SeedReport struct {
	Members  int
	Projects int
	Tasks    int
}

// Seed replaces all members, projects and tasks with the fixture content.
// Every reference is resolved before anything is deleted.
func (m *Migrator) Seed(ctx context.Context, f *Fixture) (SeedReport, error) {
	var report SeedReport
	now := m.now().UTC()

	members := make([]models.Member, 0, len(f.Members))
	memberIDs := map[string]primitive.ObjectID{}
	for _, fm := range f.Members {
		if strings.TrimSpace(fm.Name) == "" {
			return report, fmt.Errorf("%w: member name is required", models.ErrValidation)
		}
		role := models.Role(fm.Role)
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			return report, fmt.Errorf("%w: member %q has invalid role %q", models.ErrValidation, fm.Name, fm.Role)
		}
		member := models.Member{
			ID:        primitive.NewObjectID(),
			Name:      fm.Name,
			Email:     strings.ToLower(strings.TrimSpace(fm.Email)),
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if fm.Password != "" {
			digest, err := utils.HashPassword(fm.Password)
			if err != nil {
				return report, err
			}
			member.Password = digest
		}
		if member.Email != "" {
			memberIDs[member.Email] = member.ID
		}
		members = append(members, member)
	}

	projects := make([]models.Project, 0, len(f.Projects))
	projectIDs := map[string]primitive.ObjectID{}
	for _, fp := range f.Projects {
		if strings.TrimSpace(fp.Name) == "" {
			return report, fmt.Errorf("%w: project name is required", models.ErrValidation)
		}
		color := fp.Color
		if color == "" {
			color = models.DefaultProjectColor
		}
		project := models.Project{
			ID:          primitive.NewObjectID(),
			Name:        fp.Name,
			Description: fp.Description,
			Color:       color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		projectIDs[project.Name] = project.ID
		projects = append(projects, project)
	}

	tasks := make([]models.Task, 0, len(f.Tasks))
	for _, ft := range f.Tasks {
		task, err := fixtureTask(ft, memberIDs, projectIDs)
		if err != nil {
			return report, err
		}
		task.CreatedAt = now
		task.UpdatedAt = now
		tasks = append(tasks, task)
	}

	if err := m.tasks.DeleteAll(ctx); err != nil {
		return report, err
	}
	if err := m.projects.DeleteAll(ctx); err != nil {
		return report, err
	}
	if err := m.members.DeleteAll(ctx); err != nil {
		return report, err
	}

	for i := range members {
		if err := m.members.Create(ctx, &members[i]); err != nil {
			return report, fmt.Errorf("seed member %q: %w", members[i].Name, err)
		}
		report.Members++
	}
	for i := range projects {
		if err := m.projects.Create(ctx, &projects[i]); err != nil {
			return report, fmt.Errorf("seed project %q: %w", projects[i].Name, err)
		}
		report.Projects++
	}
	for i := range tasks {
		if err := m.tasks.Create(ctx, &tasks[i]); err != nil {
			return report, fmt.Errorf("seed task %q: %w", tasks[i].Title, err)
		}
		report.Tasks++
	}

	logging.Logger.Infof("Event ID: SEED_DONE, Description: Seeded %d members, %d projects, %d tasks",
		report.Members, report.Projects, report.Tasks)
	return report, nil
}

func fixtureTask(ft FixtureTask, members, projects map[string]primitive.ObjectID) (models.Task, error) {
	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(ft.Title),
		Description: ft.Description,
		Priority:    models.ParsePriority(ft.Priority),
		Status:      models.TaskStatus(ft.Status),
		Tags:        ft.Tags,
	}
	if task.Title == "" {
		return task, fmt.Errorf("%w: task title is required", models.ErrValidation)
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Priority.Valid() {
		return task, fmt.Errorf("%w: task %q has invalid priority %q", models.ErrValidation, task.Title, ft.Priority)
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if !task.Status.Valid() {
		return task, fmt.Errorf("%w: task %q has invalid status %q", models.ErrValidation, task.Title, ft.Status)
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if ft.Assignee != "" {
		id, ok := members[strings.ToLower(ft.Assignee)]
		if !ok {
			return task, fmt.Errorf("%w: task %q is assigned to unknown member %q", models.ErrValidation, task.Title, ft.Assignee)
		}
		task.AssignedTo = &id
	}
	if ft.Project != "" {
		id, ok := projects[ft.Project]
		if !ok {
			return task, fmt.Errorf("%w: task %q references unknown project %q", models.ErrValidation, task.Title, ft.Project)
		}
		task.Project = &id
	}
	var err error
	if task.StartDate, err = fixtureDate(ft.StartDate); err != nil {
		return task, fmt.Errorf("task %q: %w", task.Title, err)
	}
	if task.DueDate, err = fixtureDate(ft.DueDate); err != nil {
		return task, fmt.Errorf("task %q: %w", task.Title, err)
	}
	return task, nil
}

func fixtureDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	var ts models.Timestamp
	if err := ts.UnmarshalJSON([]byte(strconv.Quote(s))); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return ts.Ptr(), nil
}
