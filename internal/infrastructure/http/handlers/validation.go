package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homemadefood/backoffice/internal/domain/food"
)

var registerOnce sync.Once

// RegisterValidators adds the kitchen form rules to gin's validator:
//
//	notnil_uuid  a parsable identifier other than the empty one
//	dish_type    a known dish type value or label
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if err = v.RegisterValidation("notnil_uuid", validateNotNilUUID); err != nil {
			return
		}
		err = v.RegisterValidation("dish_type", validateDishType)
	})
	return err
}

func validateNotNilUUID(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case uuid.UUID:
		return value != uuid.Nil
	case string:
		id, err := uuid.Parse(value)
		return err == nil && id != uuid.Nil
	default:
		return false
	}
}

func validateDishType(fl validator.FieldLevel) bool {
	_, err := food.ParseDishType(fl.Field().String())
	return err == nil
}

// formErrors turns a binding failure into messages fit for a form
func formErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "notnil_uuid":
			messages = append(messages, fmt.Sprintf("%s must be selected", fe.Field()))
		case "dish_type":
			messages = append(messages, fmt.Sprintf("%s is not a known dish type", fe.Field()))
		case "numeric", "gte", "gt":
			messages = append(messages, fmt.Sprintf("%s must be a non-negative number", fe.Field()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return messages
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid identifier %q: %w", value, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDecimals(raw []string) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, 0, len(raw))
	for _, value := range raw {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", value, err)
		}
		values = append(values, d)
	}
	return values, nil
}
