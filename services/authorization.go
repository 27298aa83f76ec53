package services

import (
	"fmt"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireRole returns ErrUnauthenticated when there is no identity and
// ErrForbidden when the identity lacks role.
func RequireRole(claims *models.Claims, role models.Role) error {
	if claims == nil {
		return models.ErrUnauthenticated
	}
	if claims.Role != role {
		if role == models.RoleAdmin {
			return fmt.Errorf("%w. Admin only", models.ErrForbidden)
		}
		return fmt.Errorf("%w. Requires role %s", models.ErrForbidden, role)
	}
	return nil
}

func requireAdmin(claims *models.Claims) error {
	return RequireRole(claims, models.RoleAdmin)
}

func requireAuthenticated(claims *models.Claims) error {
	if claims == nil {
		return models.ErrUnauthenticated
	}
	return nil
}

func memberIDOf(claims *models.Claims) (primitive.ObjectID, error) {
	if claims == nil {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(claims.MemberID)
	if err != nil {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}
	return id, nil
}
