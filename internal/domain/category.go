package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// Category является корнем агрегата категории каталога.
// Состояние меняется только через Activate, Deactivate и Update.
type Category struct {
	Entity[CategoryID]
	name        string
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
	clock       Clock
}

// CategoryOption настраивает агрегат при создании.
type CategoryOption func(*Category)

// WithClock задаёт источник времени для временных меток агрегата.
func WithClock(clock Clock) CategoryOption {
	return func(c *Category) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCategory создаёт новую категорию со свежим идентификатором.
// Неактивная категория сразу получает deletedAt. Валидация здесь не выполняется, см. Validate.
func NewCategory(name, description string, isActive bool, opts ...CategoryOption) *Category {
	c := &Category{
		Entity:      NewEntity(UniqueCategoryID()),
		name:        name,
		description: description,
		active:      isActive,
		clock:       SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	now := c.clock.Now()
	c.createdAt = now
	c.updatedAt = now
	if !isActive {
		c.deletedAt = &now
	}

	return c
}

// ReconstituteCategory восстанавливает агрегат из сохранённого состояния.
func ReconstituteCategory(
	id CategoryID,
	name string,
	description string,
	active bool,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
	opts ...CategoryOption,
) (*Category, error) {
	const op = "ReconstituteCategory"

	if id.IsZero() {
		return nil, e.Wrap(op, fmt.Errorf("'id' should not be empty: %w", e.ErrInvalidArgument))
	}
	if createdAt.IsZero() {
		return nil, e.Wrap(op, fmt.Errorf("'createdAt' should not be null: %w", e.ErrInvalidArgument))
	}
	if updatedAt.IsZero() {
		return nil, e.Wrap(op, fmt.Errorf("'updatedAt' should not be null: %w", e.ErrInvalidArgument))
	}

	c := &Category{
		Entity:      NewEntity(id),
		name:        name,
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   copyTime(deletedAt),
		clock:       SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CopyOf возвращает независимую копию категории.
// Изменения копии не затрагивают исходный агрегат.
func CopyOf(c *Category) *Category {
	cp := *c
	cp.deletedAt = copyTime(c.deletedAt)
	return &cp
}

// Deactivate переводит категорию в неактивное состояние.
// Повторный вызов не сдвигает уже установленную deletedAt.
func (c *Category) Deactivate() *Category {
	c.deactivate(c.clock.Now())
	return c
}

// Activate делает категорию активной и сбрасывает deletedAt.
func (c *Category) Activate() *Category {
	c.activate(c.clock.Now())
	return c
}

// Update меняет имя, описание и состояние активности одной операцией.
func (c *Category) Update(name, description string, isActive bool) *Category {
	now := c.clock.Now()
	if isActive {
		c.activate(now)
	} else {
		c.deactivate(now)
	}

	c.name = name
	c.description = description
	c.updatedAt = now
	return c
}

// Validate проверяет инварианты категории и складывает ошибки в handler.
func (c *Category) Validate(handler ValidationHandler) {
	NewCategoryValidator(c, handler).Validate()
}

// Equals сравнивает категории по идентификатору.
func (c *Category) Equals(other *Category) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c.SameIdentityAs(other.Entity)
}

func (c *Category) Name() string {
	return c.name
}

func (c *Category) Description() string {
	return c.description
}

func (c *Category) IsActive() bool {
	return c.active
}

func (c *Category) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Category) UpdatedAt() time.Time {
	return c.updatedAt
}

// DeletedAt возвращает момент деактивации или nil для активной категории.
func (c *Category) DeletedAt() *time.Time {
	return copyTime(c.deletedAt)
}

func (c *Category) activate(now time.Time) {
	c.deletedAt = nil
	c.active = true
	c.updatedAt = now
}

func (c *Category) deactivate(now time.Time) {
	if c.deletedAt == nil {
		c.deletedAt = &now
	}

	c.active = false
	c.updatedAt = now
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t
	return &v
}
