package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	CategoryNameMinLength        = 3
	CategoryNameMaxLength        = 255
	CategoryDescriptionMaxLength = 4000
)

// categoryRules задаёт проверяемое представление категории. Имя проверяется без крайних пробелов.
type categoryRules struct {
	Name        string `field:"name" validate:"required,min=3,max=255"`
	Description string `field:"description" validate:"max=4000"`
}

var categoryValidate = newCategoryValidate()

func newCategoryValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})

	return v
}

// CategoryValidator проверяет категорию и сообщает о нарушениях через ValidationHandler.
type CategoryValidator struct {
	category *Category
	handler  ValidationHandler
}

func NewCategoryValidator(category *Category, handler ValidationHandler) *CategoryValidator {
	return &CategoryValidator{category: category, handler: handler}
}

func (v *CategoryValidator) Validate() {
	rules := categoryRules{
		Name:        strings.TrimSpace(v.category.Name()),
		Description: v.category.Description(),
	}

	err := categoryValidate.Struct(rules)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.handler.Append(ValidationError{Message: err.Error()})
		return
	}

	for _, fe := range fieldErrs {
		v.handler.Append(ValidationError{Message: categoryRuleMessage(fe)})
	}
}

func categoryRuleMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "required":
		return fmt.Sprintf("'%s' should not be empty", fe.Field())
	case fe.Field() == "name":
		return fmt.Sprintf("'name' must be between %d and %d characters", CategoryNameMinLength, CategoryNameMaxLength)
	case fe.Field() == "description":
		return fmt.Sprintf("'description' must be at most %d characters", CategoryDescriptionMaxLength)
	default:
		return fmt.Sprintf("'%s' is invalid", fe.Field())
	}
}
