package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPgx  = "pgx"
	StoreDriverGorm = "gorm"
)

type Config struct {
	App   *AppCfg
	Store *StoreCfg
	Db    *PGDBCfg
}

type AppCfg struct {
	Env             string
	ShutdownTimeout time.Duration
}

type StoreCfg struct {
	Driver        string // pgx или gorm
	MigrationsURL string // источник миграций golang-migrate
	AutoMigrate   bool
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	ConnectRetries int           // число повторных попыток первого подключения
	ConnectBackoff time.Duration // базовая задержка между попытками
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Переменные из файла .env, если он есть, не перекрывают уже заданные в окружении.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env file: %v", err)
	}

	app, err := loadAppCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	store, err := loadStoreCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:   app,
		Store: store,
		Db:    db,
	}, nil
}

func loadAppCfg(log logger.Logger) (*AppCfg, error) {
	const (
		defaultEnv             = "dev"
		defaultShutdownTimeout = 10 * time.Second
	)

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &AppCfg{
		Env:             getEnvOrDefault("APP_ENV", defaultEnv),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadStoreCfg(log logger.Logger) (*StoreCfg, error) {
	const (
		defaultDriver        = StoreDriverPgx
		defaultMigrationsURL = "file://db/migrations"
		defaultAutoMigrate   = true
	)

	driver := strings.ToLower(getEnvOrDefault("STORE_DRIVER", defaultDriver))
	if driver != StoreDriverPgx && driver != StoreDriverGorm {
		err := fmt.Errorf("%w: STORE_DRIVER=%q", e.ErrUnknownStoreDriver, driver)
		log.Errorf(err, "invalid STORE_DRIVER")
		return nil, err
	}

	autoMigrate, err := parseBoolEnv("AUTO_MIGRATE", defaultAutoMigrate)
	if err != nil {
		log.Errorf(err, "invalid AUTO_MIGRATE")
		return nil, err
	}

	return &StoreCfg{
		Driver:        driver,
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
		AutoMigrate:   autoMigrate,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMaxConns       = 10
		defaultConnectRetries = 5
		defaultConnectBackoff = 500 * time.Millisecond
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, err
	}

	retries, err := parseIntEnv("POSTGRES_CONNECT_RETRIES", defaultConnectRetries)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_CONNECT_RETRIES")
		return nil, err
	}

	backoff, err := parseDurationEnv("POSTGRES_CONNECT_BACKOFF", defaultConnectBackoff)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_CONNECT_BACKOFF")
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:       int32(maxConns),
		ConnectRetries: retries,
		ConnectBackoff: backoff,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", e.ErrIncorrectEnvVariable, key, v)
	}

	return d, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil || intValue < 0 {
		return defaultValue, fmt.Errorf("%w: %s=%q", e.ErrIncorrectEnvVariable, key, v)
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q", e.ErrIncorrectEnvVariable, key, v)
	}

	return b, nil
}
