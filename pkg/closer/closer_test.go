package closer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0, logger.NewNop())
	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"postgres", "gorm", "logger"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(order, ","); got != "logger,gorm,postgres" {
		t.Errorf("unexpected close order %s", got)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0, logger.NewNop())
	c.Add("postgres", func(context.Context) error { return errors.New("pool busy") })
	c.Add("logger", func(context.Context) error { return nil })

	err := c.Close(context.Background())

	if err == nil || !strings.Contains(err.Error(), "[!] postgres: pool busy") {
		t.Fatalf("expected postgres error, got %v", err)
	}
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100*time.Millisecond, logger.NewNop())
	var forced sync.WaitGroup
	forced.Add(1)
	c.Add("postgres", func(context.Context) error {
		forced.Done()
		return nil
	})
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)

	if err == nil || !strings.Contains(err.Error(), "shutdown interrupted after 0/2 resources") {
		t.Fatalf("expected interrupted shutdown, got %v", err)
	}
	forced.Wait()
}

func TestCloseLogsClosedAndForcedResources(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewCloser(50*time.Millisecond, logger.NewZap(zap.New(core)))
	c.Add("postgres pool", func(context.Context) error { return nil })
	c.Add("gorm category store", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_ = c.Close(ctx)

	if logs.FilterMessage("shutdown deadline exceeded, force closing 2 resource(s)").Len() != 1 {
		t.Errorf("expected forced close warning, got %v", logs.All())
	}
}
