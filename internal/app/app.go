package app

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/repository/gormdb"
	"github.com/DRSN-tech/catalog-admin/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-admin/pkg/closer"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/DRSN-tech/catalog-admin/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// App собирает хранилище категорий по конфигурации и отвечает за освобождение ресурсов.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	db      *postgres.PgDatabase
	gateway domain.CategoryGateway
}

func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(cfg.App.ShutdownTimeout, log),
	}

	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.db = db
	a.closer.Add("postgres pool", func(context.Context) error {
		db.Close()
		return nil
	})

	gateway, err := a.initGateway()
	if err != nil {
		_ = a.closer.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.gateway = gateway

	log.Infof("category store initialized with %s driver", cfg.Store.Driver)
	return a, nil
}

// Gateway возвращает хранилище категорий, выбранное в конфигурации.
func (a *App) Gateway() domain.CategoryGateway {
	return a.gateway
}

// CountCategories возвращает общее число сохранённых категорий.
func (a *App) CountCategories(ctx context.Context) (int64, error) {
	page, err := a.gateway.FindAll(ctx, domain.NewCategorySearchQuery(0, 1, "", "", ""))
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return page.Total, nil
}

// Close освобождает ресурсы в порядке, обратном инициализации.
func (a *App) Close(ctx context.Context) error {
	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "application shutdown finished with errors")
		return err
	}

	a.logger.Infof("application shutdown complete")
	return nil
}

func (a *App) initGateway() (domain.CategoryGateway, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverPgx:
		return pgdb.NewCategoryGateway(a.db.Pool, pgdbConv.NewCategoryConverter(), a.logger), nil
	case config.StoreDriverGorm:
		gdb, closeGorm, err := a.db.OpenGorm()
		if err != nil {
			return nil, err
		}
		a.closer.Add("gorm category store", func(context.Context) error {
			return closeGorm()
		})
		return gormdb.NewCategoryGateway(gdb, a.logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", e.ErrUnknownStoreDriver, a.cfg.Store.Driver)
	}
}

func initPGDB(ctx context.Context, log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db, log)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if cfg.Store.AutoMigrate {
		if err := db.RunMigrations(cfg.Store.MigrationsURL, log); err != nil {
			log.Errorf(err, "failed to run migrations")
			db.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return db, nil
}
