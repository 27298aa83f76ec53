package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type Member struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      Role               `bson:"role,omitempty" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the member carries the admin role. A missing role
// (legacy record) counts as a regular user.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// NewMember is the payload for creating a member outside of registration.
type NewMember struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// MemberUpdate changes only the fields that were present in the request.
type MemberUpdate struct {
	Name  Optional[string] `json:"name,omitzero"`
	Email Optional[string] `json:"email,omitzero"`
	Role  Optional[Role]   `json:"role,omitzero"`
}

func (u MemberUpdate) ApplyTo(m *Member) {
	if u.Name.Set {
		m.Name = u.Name.Value
	}
	if u.Email.Set {
		m.Email = u.Email.Value
	}
	if u.Role.Set {
		m.Role = u.Role.Value
	}
}
