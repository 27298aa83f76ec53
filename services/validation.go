package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"taskboard/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of v and reports the first failure as
// a models.ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%w: %s is required", models.ErrValidation, fe.Field())
		case "email":
			return fmt.Errorf("%w: %s must be a valid email address", models.ErrValidation, fe.Field())
		case "min":
			return fmt.Errorf("%w: %s must be at least %s characters", models.ErrValidation, fe.Field(), fe.Param())
		}
		return fmt.Errorf("%w: %s is invalid", models.ErrValidation, fe.Field())
	}
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}

func validateEmail(email string) error {
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: email must be a valid email address", models.ErrValidation)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseID maps a malformed id to ErrNotFound: no record can have it.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", models.ErrNotFound, id)
	}
	return oid, nil
}
