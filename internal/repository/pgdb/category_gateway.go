package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/DRSN-tech/catalog-admin/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryGateway реализует domain.CategoryGateway поверх PostgreSQL.
// Если в контексте есть транзакция (tr.WithTx), запросы выполняются в ней.
type CategoryGateway struct {
	pool   *pgxpool.Pool
	conv   converter.CategoryConverter
	logger logger.Logger
}

var _ domain.CategoryGateway = (*CategoryGateway)(nil)

func NewCategoryGateway(pool *pgxpool.Pool, conv converter.CategoryConverter, logger logger.Logger) *CategoryGateway {
	return &CategoryGateway{
		pool:   pool,
		conv:   conv,
		logger: logger,
	}
}

func (c *CategoryGateway) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return c.save(ctx, category)
}

func (c *CategoryGateway) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return c.save(ctx, category)
}

// save записывает состояние агрегата целиком (upsert по id) и возвращает сохранённую запись.
func (c *CategoryGateway) save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (id, name, description, active, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			active = EXCLUDED.active,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
		RETURNING id, name, description, active, created_at, updated_at, deleted_at;
	`

	model := c.conv.ToModel(category)
	var stored converter.CategoryModel
	err := tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query,
		model.ID,
		model.Name,
		model.Description,
		model.Active,
		model.CreatedAt,
		model.UpdatedAt,
		model.DeletedAt,
	).Scan(
		&stored.ID, &stored.Name, &stored.Description, &stored.Active,
		&stored.CreatedAt, &stored.UpdatedAt, &stored.DeletedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&stored)
}

// DeleteByID физически удаляет категорию. Отсутствие записи не считается ошибкой.
func (c *CategoryGateway) DeleteByID(ctx context.Context, id domain.CategoryID) error {
	tag, err := tr.QuerierFromCtx(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id.Value())
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		c.logger.Debugf("category %s not found, nothing to delete", id)
	}

	return nil
}

func (c *CategoryGateway) FindByID(ctx context.Context, id domain.CategoryID) (*domain.Category, bool, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	rows, err := tr.QuerierFromCtx(ctx, c.pool).Query(ctx, query, id.Value())
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	category, err := c.conv.ToEntity(&model)
	if err != nil {
		return nil, false, err
	}

	return category, true, nil
}

// FindAll возвращает страницу категорий. Подсчёт и выборка выполняются в одной
// read-only транзакции, поэтому Total и Items согласованы между собой.
func (c *CategoryGateway) FindAll(ctx context.Context, query domain.CategorySearchQuery) (*domain.Pagination[*domain.Category], error) {
	const op = "CategoryGateway.FindAll"

	stmt, err := buildCategorySearch(query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		total  int64
		models []converter.CategoryModel
	)
	txOpts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err = tr.Within(ctx, c.pool, txOpts, func(ctx context.Context) error {
		q := tr.QuerierFromCtx(ctx, c.pool)

		if err := q.QueryRow(ctx, stmt.Count, stmt.CountArgs...).Scan(&total); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		if total == 0 {
			return nil
		}

		rows, err := q.Query(ctx, stmt.Select, stmt.SelectArgs...)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		models, err = pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items, err := c.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.NewPagination(query.Page, query.PerPage, total, items), nil
}
