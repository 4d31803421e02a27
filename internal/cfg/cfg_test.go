package cfg

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "catalog")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{
		"APP_ENV", "SHUTDOWN_TIMEOUT", "STORE_DRIVER", "MIGRATIONS_URL", "AUTO_MIGRATE",
		"POSTGRES_HOST", "POSTGRES_PORT", "SSL_MODE", "POSTGRES_MAX_CONNS",
		"POSTGRES_CONNECT_RETRIES", "POSTGRES_CONNECT_BACKOFF",
	} {
		t.Setenv(key, "")
	}

	c, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.App.Env != "dev" || c.App.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected app config %+v", c.App)
	}
	if c.Store.Driver != StoreDriverPgx || c.Store.MigrationsURL != "file://db/migrations" || !c.Store.AutoMigrate {
		t.Errorf("unexpected store config %+v", c.Store)
	}
	if c.Db.Host != "localhost" || c.Db.Port != "5432" || c.Db.MaxConns != 10 || c.Db.ConnectRetries != 5 {
		t.Errorf("unexpected db config %+v", c.Db)
	}

	want := "host=localhost port=5432 user=catalog password=secret dbname=catalog sslmode=disable"
	if got := c.Db.DSN(); got != want {
		t.Errorf("expected dsn %q, got %q", want, got)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORE_DRIVER", "GORM")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("POSTGRES_CONNECT_BACKOFF", "2s")
	t.Setenv("POSTGRES_MAX_CONNS", "25")

	c, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Store.Driver != StoreDriverGorm || c.Store.AutoMigrate {
		t.Errorf("unexpected store config %+v", c.Store)
	}
	if c.Db.ConnectBackoff != 2*time.Second || c.Db.MaxConns != 25 {
		t.Errorf("unexpected db config %+v", c.Db)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mysql"}, wantErr: e.ErrUnknownStoreDriver},
		{name: "bad duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}, wantErr: e.ErrIncorrectEnvVariable},
		{name: "bad bool", env: map[string]string{"AUTO_MIGRATE": "maybe"}, wantErr: e.ErrIncorrectEnvVariable},
		{name: "negative int", env: map[string]string{"POSTGRES_CONNECT_RETRIES": "-1"}, wantErr: e.ErrIncorrectEnvVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(logger.NewNop())

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(logger.NewNop()); err == nil {
		t.Fatal("expected error for missing POSTGRES_PASSWORD")
	}
}
