package domain

import (
	"strings"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/google/uuid"
)

// CategoryID это неизменяемый идентификатор категории.
// Канонически это UUID в нижнем регистре, но при разборе внешнего ввода принимается любая непустая строка.
type CategoryID struct {
	value string
}

// UniqueCategoryID генерирует новый случайный идентификатор (UUID v4).
func UniqueCategoryID() CategoryID {
	return CategoryIDFromUUID(uuid.New())
}

// CategoryIDFrom оборачивает строку, полученную извне. Формат не проверяется.
// Пустая строка считается отсутствующим идентификатором и отклоняется с e.ErrInvalidArgument.
func CategoryIDFrom(value string) (CategoryID, error) {
	if value == "" {
		return CategoryID{}, e.Wrap("CategoryIDFrom", e.ErrInvalidArgument)
	}

	return CategoryID{value: value}, nil
}

func CategoryIDFromUUID(id uuid.UUID) CategoryID {
	return CategoryID{value: strings.ToLower(id.String())}
}

func (id CategoryID) Value() string {
	return id.value
}

func (id CategoryID) String() string {
	return id.value
}

// IsZero сообщает, что идентификатор не был задан.
func (id CategoryID) IsZero() bool {
	return id.value == ""
}

func (id CategoryID) Equals(other CategoryID) bool {
	return id.value == other.value
}
