package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var categoryFieldColumns = map[string]string{
	domain.CategoryFieldName:        "name",
	domain.CategoryFieldDescription: "description",
	domain.CategoryFieldActive:      "active",
	domain.CategoryFieldCreatedAt:   "created_at",
	domain.CategoryFieldUpdatedAt:   "updated_at",
	domain.CategoryFieldDeletedAt:   "deleted_at",
}

var upsertColumns = []string{"name", "description", "active", "created_at", "updated_at", "deleted_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CategoryGateway реализует domain.CategoryGateway поверх GORM.
type CategoryGateway struct {
	db     *gorm.DB
	logger logger.Logger
	opts   []domain.CategoryOption
}

var _ domain.CategoryGateway = (*CategoryGateway)(nil)

// NewCategoryGateway создаёт шлюз. opts применяются к каждому восстановленному агрегату.
func NewCategoryGateway(db *gorm.DB, logger logger.Logger, opts ...domain.CategoryOption) *CategoryGateway {
	return &CategoryGateway{db: db, logger: logger, opts: opts}
}

func (g *CategoryGateway) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return g.save(ctx, category)
}

func (g *CategoryGateway) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return g.save(ctx, category)
}

// save выполняет upsert по id и перечитывает запись в той же транзакции.
func (g *CategoryGateway) save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	record := newCategoryRecord(category)

	var stored CategoryRecord
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(record).Error
		if err != nil {
			return err
		}

		return tx.First(&stored, "id = ?", record.ID).Error
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return stored.toAggregate(g.opts...)
}

func (g *CategoryGateway) DeleteByID(ctx context.Context, id domain.CategoryID) error {
	res := g.db.WithContext(ctx).Delete(&CategoryRecord{}, "id = ?", id.Value())
	if res.Error != nil {
		return e.Wrap(whereami.WhereAmI(), res.Error)
	}

	if res.RowsAffected == 0 {
		g.logger.Debugf("category %s not found, nothing to delete", id)
	}

	return nil
}

func (g *CategoryGateway) FindByID(ctx context.Context, id domain.CategoryID) (*domain.Category, bool, error) {
	var record CategoryRecord
	err := g.db.WithContext(ctx).First(&record, "id = ?", id.Value()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	category, err := record.toAggregate(g.opts...)
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	return category, true, nil
}

// FindAll возвращает страницу категорий. При равенстве ключа сортировки порядок определяется id.
func (g *CategoryGateway) FindAll(ctx context.Context, query domain.CategorySearchQuery) (*domain.Pagination[*domain.Category], error) {
	const op = "gormdb.CategoryGateway.FindAll"

	if err := query.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	field, _ := query.SortField()
	direction, _ := query.SortDirection()
	filter := query.Filter()

	var (
		total   int64
		records []CategoryRecord
	)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counted, err := applyFilter(tx.Model(&CategoryRecord{}), filter)
		if err != nil {
			return err
		}
		if err := counted.Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return nil
		}

		paged, err := applyFilter(tx.Model(&CategoryRecord{}), filter)
		if err != nil {
			return err
		}

		return paged.
			Order(clause.OrderByColumn{Column: clause.Column{Name: categoryFieldColumns[field]}, Desc: direction == domain.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
			Limit(query.PerPage).
			Offset(domain.Offset(query.Page, query.PerPage)).
			Find(&records).Error
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]*domain.Category, 0, len(records))
	for i := range records {
		category, err := records[i].toAggregate(g.opts...)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		items = append(items, category)
	}

	return domain.NewPagination(query.Page, query.PerPage, total, items), nil
}

// applyFilter добавляет условие «любой из предикатов», сравнение без учёта регистра.
func applyFilter(db *gorm.DB, filter domain.Filter) (*gorm.DB, error) {
	if filter.IsEmpty() {
		return db, nil
	}

	clauses := make([]string, 0, len(filter.AnyOf))
	args := make([]any, 0, len(filter.AnyOf))
	for _, p := range filter.AnyOf {
		column, ok := categoryFieldColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q", p.Field)
		}

		clauses = append(clauses, "UPPER("+column+`) LIKE UPPER(?) ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(p.Contains)+"%")
	}

	return db.Where("("+strings.Join(clauses, " OR ")+")", args...), nil
}
