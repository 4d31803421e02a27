package converter

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
// Написан вручную, а не через goverter: агрегат собирается только через ReconstituteCategory, который возвращает ошибку.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) (*domain.Category, error)
	ToArrEntity(models []CategoryModel) ([]*domain.Category, error)
}

type categoryConverter struct {
	opts []domain.CategoryOption
}

// NewCategoryConverter создаёт конвертер. opts применяются к каждому восстановленному агрегату.
func NewCategoryConverter(opts ...domain.CategoryOption) CategoryConverter {
	return &categoryConverter{opts: opts}
}

func (c *categoryConverter) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:          entity.ID().Value(),
		Name:        entity.Name(),
		Description: ConvertDescription(entity.Description()),
		Active:      entity.IsActive(),
		CreatedAt:   ConvertTime(entity.CreatedAt()),
		UpdatedAt:   ConvertTime(entity.UpdatedAt()),
		DeletedAt:   ConvertPointerTime(entity.DeletedAt()),
	}
}

func (c *categoryConverter) ToEntity(model *CategoryModel) (*domain.Category, error) {
	const op = "categoryConverter.ToEntity"

	id, err := domain.CategoryIDFrom(model.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var description string
	if model.Description != nil {
		description = *model.Description
	}

	category, err := domain.ReconstituteCategory(
		id,
		model.Name,
		description,
		model.Active,
		model.CreatedAt,
		model.UpdatedAt,
		model.DeletedAt,
		c.opts...,
	)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

func (c *categoryConverter) ToArrEntity(models []CategoryModel) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(models))
	for i := range models {
		category, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}

	return out, nil
}

// ConvertDescription хранит пустое описание как NULL.
func ConvertDescription(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ConvertPointerTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func ConvertTime(t time.Time) time.Time {
	return t.UTC()
}
