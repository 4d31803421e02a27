package gormdb

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// CategoryRecord описывает строку таблицы categories для GORM.
// Временные метки задаёт агрегат, поэтому автозаполнение GORM отключено.
type CategoryRecord struct {
	ID          string     `gorm:"column:id;primaryKey;type:varchar(255)"`
	Name        string     `gorm:"column:name;type:varchar(255);not null;index"`
	Description *string    `gorm:"column:description;type:varchar(4000)"`
	Active      bool       `gorm:"column:active;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
}

func (CategoryRecord) TableName() string {
	return "categories"
}

func newCategoryRecord(c *domain.Category) *CategoryRecord {
	var description *string
	if d := c.Description(); d != "" {
		description = &d
	}

	var deletedAt *time.Time
	if d := c.DeletedAt(); d != nil {
		v := d.UTC()
		deletedAt = &v
	}

	return &CategoryRecord{
		ID:          c.ID().Value(),
		Name:        c.Name(),
		Description: description,
		Active:      c.IsActive(),
		CreatedAt:   c.CreatedAt().UTC(),
		UpdatedAt:   c.UpdatedAt().UTC(),
		DeletedAt:   deletedAt,
	}
}

func (r *CategoryRecord) toAggregate(opts ...domain.CategoryOption) (*domain.Category, error) {
	id, err := domain.CategoryIDFrom(r.ID)
	if err != nil {
		return nil, err
	}

	var description string
	if r.Description != nil {
		description = *r.Description
	}

	return domain.ReconstituteCategory(id, r.Name, description, r.Active, r.CreatedAt, r.UpdatedAt, r.DeletedAt, opts...)
}
