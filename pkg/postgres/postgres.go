package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	pingTimeout    = 5 * time.Second
	maxBackoff     = 10 * time.Second
	databaseDriver = "postgres"
	sqlDriver      = "pgx"
)

// PgDatabase инкапсулирует подключение к PostgreSQL и управление миграциями.
type PgDatabase struct {
	Pool *pgxpool.Pool
	cfg  *cfg.PGDBCfg
}

func NewPgDatabase(pool *pgxpool.Pool, cfg *cfg.PGDBCfg) *PgDatabase {
	return &PgDatabase{Pool: pool, cfg: cfg}
}

// Connect создаёт пул и дожидается ответа базы.
// Неудачный ping повторяется cfg.ConnectRetries раз с экспоненциальной задержкой и джиттером.
func Connect(ctx context.Context, cfg *cfg.PGDBCfg, log logger.Logger) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	db := NewPgDatabase(pool, cfg)
	for attempt := 0; ; attempt++ {
		err = db.Ping(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= cfg.ConnectRetries {
			break
		}

		delay := jitter.ExponentialBackoff(cfg.ConnectBackoff, maxBackoff, attempt, jitter.DefaultJitter)
		log.Warnf("postgres is not ready (attempt %d/%d), retrying in %s: %v", attempt+1, cfg.ConnectRetries+1, delay, err)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, e.Wrap(op, ctx.Err())
		case <-time.After(delay):
		}
	}

	pool.Close()
	return nil, e.Wrap(op, fmt.Errorf("failed after %d attempts: %w", cfg.ConnectRetries+1, err))
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// OpenGorm открывает *gorm.DB поверх того же пула pgx.
// Возвращённую функцию нужно вызвать при завершении, сам пул она не закрывает.
func (db *PgDatabase) OpenGorm() (*gorm.DB, func() error, error) {
	const op = "PgDatabase.OpenGorm"

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	gdb, err := gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, e.Wrap(op, err)
	}

	return gdb, sqlDB.Close, nil
}

// RunMigrations применяет ожидающие миграции из sourceURL.
func (db *PgDatabase) RunMigrations(sourceURL string, log logger.Logger) error {
	const op = "PgDatabase.RunMigrations"

	sqlDB, err := sql.Open(sqlDriver, db.cfg.DSN())
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDB.Close()

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databaseDriver, driver)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("migrations are up to date")
			return nil
		}
		return e.Wrap(op, err)
	}

	log.Infof("migrations applied successfully")
	return nil
}
