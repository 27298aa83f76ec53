package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"
)

type MemberService struct {
	members repositories.MemberRepository
	tasks   repositories.TaskRepository
	tx      repositories.Transactor
	now     func() time.Time
}

func NewMemberService(members repositories.MemberRepository, tasks repositories.TaskRepository, tx repositories.Transactor) *MemberService {
	return &MemberService{members: members, tasks: tasks, tx: tx, now: time.Now}
}

// ListMembers is open to every signed-in member; assignee pickers need it.
func (s *MemberService) ListMembers(ctx context.Context, claims *models.Claims) ([]models.Member, error) {
	if err := requireAuthenticated(claims); err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Password = ""
		if members[i].Role == "" {
			members[i].Role = models.RoleUser
		}
	}
	return members, nil
}

func (s *MemberService) CreateMember(ctx context.Context, claims *models.Claims, in models.NewMember) (*models.Member, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, in.Role)
	}

	now := s.now().UTC()
	member := &models.Member{
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Password != "" {
		digest, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		member.Password = digest
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: MEMBER_CREATED, Description: Member %s created by %s", member.ID.Hex(), claims.MemberID)

	member.Password = ""
	return member, nil
}

func (s *MemberService) UpdateMember(ctx context.Context, claims *models.Claims, id string, update models.MemberUpdate) (*models.Member, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	memberID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if update.Name.Set {
		update.Name.Value = strings.TrimSpace(update.Name.Value)
		if update.Name.Value == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrValidation)
		}
	}
	if update.Email.Set {
		update.Email.Value = normalizeEmail(update.Email.Value)
		if update.Email.Value != "" {
			if err := validateEmail(update.Email.Value); err != nil {
				return nil, err
			}
		}
	}
	if update.Role.Set && !update.Role.Value.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, update.Role.Value)
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	update.ApplyTo(member)
	member.UpdatedAt = s.now().UTC()

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	member.Password = ""
	return member, nil
}

// DeleteMember unassigns the member's tasks before removing the member so
// no task references a missing member.
func (s *MemberService) DeleteMember(ctx context.Context, claims *models.Claims, id string) error {
	if err := requireAdmin(claims); err != nil {
		return err
	}
	memberID, err := parseID(id)
	if err != nil {
		return err
	}
	if claims.MemberID == memberID.Hex() {
		return fmt.Errorf("%w: you cannot delete your own account", models.ErrValidation)
	}
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return err
	}

	var unassigned int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.tasks.UnassignMember(ctx, memberID)
		if err != nil {
			return err
		}
		unassigned = n
		return s.members.Delete(ctx, memberID)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: MEMBER_DELETE_FAILED, Description: Failed to delete member %s: %v", id, err)
		return err
	}

	logging.Logger.Infof("Event ID: MEMBER_DELETED, Description: Member %s deleted, %d tasks unassigned", id, unassigned)
	return nil
}
