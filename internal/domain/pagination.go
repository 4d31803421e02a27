package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// Direction задаёт направление сортировки.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection разбирает направление без учёта регистра. Пустая строка означает Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: %q", e.ErrInvalidDirection, s)
	}
}

// Predicate описывает условие «поле содержит подстроку».
type Predicate struct {
	Field    string
	Contains string
}

// Filter декларативно описывает фильтр: запись подходит, если выполняется хотя бы один предикат.
// Пустой фильтр пропускает все записи.
type Filter struct {
	AnyOf []Predicate
}

func (f Filter) IsEmpty() bool {
	return len(f.AnyOf) == 0
}

// Pagination содержит одну страницу результата поиска.
type Pagination[T any] struct {
	CurrentPage int
	PerPage     int
	Total       int64 // число записей после фильтрации, по всем страницам
	Items       []T
}

func NewPagination[T any](currentPage, perPage int, total int64, items []T) *Pagination[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return &Pagination[T]{
		CurrentPage: currentPage,
		PerPage:     perPage,
		Total:       total,
		Items:       items,
	}
}

// MapPagination преобразует элементы страницы, сохраняя её метаданные.
func MapPagination[T, R any](p *Pagination[T], fn func(T) R) *Pagination[R] {
	items := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}

	return NewPagination(p.CurrentPage, p.PerPage, p.Total, items)
}

// Offset возвращает число записей, пропускаемых до начала страницы.
// Ожидает параметры, прошедшие validatePage, иначе результат может переполниться.
func Offset(page, perPage int) int {
	return page * perPage
}

func validatePage(page, perPage int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative, got %d", e.ErrInvalidPagination, page)
	}
	if perPage < 1 {
		return fmt.Errorf("%w: perPage must be positive, got %d", e.ErrInvalidPagination, perPage)
	}
	if page > math.MaxInt/perPage {
		return fmt.Errorf("%w: page %d with perPage %d overflows offset", e.ErrInvalidPagination, page, perPage)
	}

	return nil
}
