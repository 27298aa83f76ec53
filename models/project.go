package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultProjectColor = "#4f46e5"

type Project struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Color       string             `json:"color" bson:"color"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type NewProject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ProjectUpdate mirrors the task update contract: null and absent both leave
// the field alone since none of the project fields can be cleared.
type ProjectUpdate struct {
	Name        Optional[string] `json:"name,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	Color       Optional[string] `json:"color,omitzero"`
}

func (u ProjectUpdate) ApplyTo(p *Project) {
	if u.Name.Set {
		p.Name = u.Name.Value
	}
	if u.Description.Set {
		p.Description = u.Description.Value
	}
	if u.Color.Set {
		p.Color = u.Color.Value
	}
}
