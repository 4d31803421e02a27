package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// Поля категории, доступные для фильтрации и сортировки.
const (
	CategoryFieldName        = "name"
	CategoryFieldDescription = "description"
	CategoryFieldActive      = "active"
	CategoryFieldCreatedAt   = "createdAt"
	CategoryFieldUpdatedAt   = "updatedAt"
	CategoryFieldDeletedAt   = "deletedAt"
)

// CategoryGateway описывает хранение категорий независимо от конкретного хранилища.
type CategoryGateway interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	// DeleteByID удаляет запись физически. Отсутствие записи не является ошибкой.
	DeleteByID(ctx context.Context, id CategoryID) error
	// FindByID возвращает found == false без ошибки, если запись не найдена.
	FindByID(ctx context.Context, id CategoryID) (category *Category, found bool, err error)
	FindAll(ctx context.Context, query CategorySearchQuery) (*Pagination[*Category], error)
}

// CategorySearchQuery задаёт параметры постраничного поиска категорий.
type CategorySearchQuery struct {
	Page      int    // номер страницы, с нуля
	PerPage   int    // размер страницы
	Terms     string // подстрока для поиска по имени или описанию
	Sort      string // поле сортировки, по умолчанию name
	Direction string // asc или desc, по умолчанию asc
}

func NewCategorySearchQuery(page, perPage int, terms, sort, direction string) CategorySearchQuery {
	return CategorySearchQuery{
		Page:      page,
		PerPage:   perPage,
		Terms:     terms,
		Sort:      sort,
		Direction: direction,
	}
}

// Filter строит фильтр «имя или описание содержит Terms». Пустые Terms дают пустой фильтр.
func (q CategorySearchQuery) Filter() Filter {
	if strings.TrimSpace(q.Terms) == "" {
		return Filter{}
	}

	return Filter{AnyOf: []Predicate{
		{Field: CategoryFieldName, Contains: q.Terms},
		{Field: CategoryFieldDescription, Contains: q.Terms},
	}}
}

// SortField возвращает поле сортировки с учётом значения по умолчанию.
func (q CategorySearchQuery) SortField() (string, error) {
	sort := strings.TrimSpace(q.Sort)
	if sort == "" {
		return CategoryFieldName, nil
	}

	switch sort {
	case CategoryFieldName, CategoryFieldDescription, CategoryFieldActive,
		CategoryFieldCreatedAt, CategoryFieldUpdatedAt, CategoryFieldDeletedAt:
		return sort, nil
	default:
		return "", fmt.Errorf("%w: %q", e.ErrInvalidSortField, q.Sort)
	}
}

func (q CategorySearchQuery) SortDirection() (Direction, error) {
	return ParseDirection(q.Direction)
}

// Validate проверяет параметры страницы, поля и направления сортировки.
func (q CategorySearchQuery) Validate() error {
	if err := validatePage(q.Page, q.PerPage); err != nil {
		return err
	}
	if _, err := q.SortField(); err != nil {
		return err
	}
	if _, err := q.SortDirection(); err != nil {
		return err
	}

	return nil
}
