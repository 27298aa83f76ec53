// Package migrations brings stored data up to date with the current model:
// accounts created before authentication existed, and tasks created before
// projects existed.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"
)

const (
	AdminEmail             = "admin@example.com"
	DefaultAdminPassword   = "admin123"
	DefaultMemberPassword  = "123456"
	DefaultProjectName     = "Mon Premier Projet"
	defaultProjectDescribe = "Projet par défaut contenant vos tâches existantes"
)

type Migrator struct {
	members  repositories.MemberRepository
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	now      func() time.Time
}

func NewMigrator(members repositories.MemberRepository, projects repositories.ProjectRepository, tasks repositories.TaskRepository) *Migrator {
	return &Migrator{members: members, projects: projects, tasks: tasks, now: time.Now}
}

// AuthReport summarises what the auth migration changed.
type AuthReport struct {
	AdminCreated   bool
	AdminUpdated   bool
	MembersUpdated int
}

// Auth makes sure the default admin account exists and can sign in, then
// gives every other member without a digest the default password and every
// member without a role the user role. Running it twice changes nothing.
func (m *Migrator) Auth(ctx context.Context, adminPassword string) (AuthReport, error) {
	var report AuthReport
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	now := m.now().UTC()

	admin, err := m.members.FindByEmail(ctx, AdminEmail)
	switch {
	case errors.Is(err, models.ErrNotFound):
		digest, err := utils.HashPassword(adminPassword)
		if err != nil {
			return report, err
		}
		admin = &models.Member{
			Name:      "Admin",
			Email:     AdminEmail,
			Password:  digest,
			Role:      models.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := m.members.Create(ctx, admin); err != nil {
			return report, fmt.Errorf("create admin: %w", err)
		}
		report.AdminCreated = true
		logging.Logger.Infof("Event ID: MIGRATION_ADMIN_CREATED, Description: Default admin created (%s)", AdminEmail)
	case err != nil:
		return report, fmt.Errorf("find admin: %w", err)
	default:
		changed := false
		if admin.Password == "" {
			if admin.Password, err = utils.HashPassword(adminPassword); err != nil {
				return report, err
			}
			changed = true
		}
		if admin.Role != models.RoleAdmin {
			admin.Role = models.RoleAdmin
			changed = true
		}
		if changed {
			admin.UpdatedAt = now
			if err := m.members.Update(ctx, admin); err != nil {
				return report, fmt.Errorf("update admin: %w", err)
			}
			report.AdminUpdated = true
			logging.Logger.Infof("Event ID: MIGRATION_ADMIN_UPDATED, Description: Admin account updated")
		}
	}

	members, err := m.members.List(ctx)
	if err != nil {
		return report, err
	}
	for i := range members {
		member := &members[i]
		if member.Email == AdminEmail {
			continue
		}
		changed := false
		if member.Password == "" {
			if member.Password, err = utils.HashPassword(DefaultMemberPassword); err != nil {
				return report, err
			}
			changed = true
		}
		if member.Role == "" {
			member.Role = models.RoleUser
			changed = true
		}
		if !changed {
			continue
		}
		member.UpdatedAt = now
		if err := m.members.Update(ctx, member); err != nil {
			return report, fmt.Errorf("update member %s: %w", member.ID.Hex(), err)
		}
		report.MembersUpdated++
		logging.Logger.Infof("Event ID: MIGRATION_MEMBER_UPDATED, Description: Updated member %s", member.Name)
	}

	logging.Logger.Infof("Event ID: MIGRATION_AUTH_DONE, Description: Auth migration completed, %d members updated", report.MembersUpdated)
	return report, nil
}

type DefaultProjectReport struct {
	Project      *models.Project
	Created      bool
	TasksAdopted int64
}

// DefaultProject makes sure the default project exists and moves every task
// without a project into it.
func (m *Migrator) DefaultProject(ctx context.Context) (DefaultProjectReport, error) {
	var report DefaultProjectReport

	project, err := m.projects.FindByName(ctx, DefaultProjectName)
	switch {
	case errors.Is(err, models.ErrNotFound):
		now := m.now().UTC()
		project = &models.Project{
			Name:        DefaultProjectName,
			Description: defaultProjectDescribe,
			Color:       models.DefaultProjectColor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.projects.Create(ctx, project); err != nil {
			return report, fmt.Errorf("create default project: %w", err)
		}
		report.Created = true
		logging.Logger.Infof("Event ID: MIGRATION_PROJECT_CREATED, Description: Default project created")
	case err != nil:
		return report, fmt.Errorf("find default project: %w", err)
	}
	report.Project = project

	adopted, err := m.tasks.AssignProjectWhereMissing(ctx, project.ID)
	if err != nil {
		return report, err
	}
	report.TasksAdopted = adopted
	logging.Logger.Infof("Event ID: MIGRATION_PROJECT_DONE, Description: %d tasks moved to the default project", adopted)
	return report, nil
}
