package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func освобождает ресурс.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы в обратном порядке (LIFO).
// Если контекст Close истекает раньше, оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	logger        logger.Logger
}

func NewCloser(forcedTimeout time.Duration, log logger.Logger) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Closer{forcedTimeout: forcedTimeout, logger: log}
}

// Add регистрирует ресурс. name попадает в журнал и в сообщения об ошибках.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает все ресурсы. Повторные вызовы ничего не делают и возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.resources = nil
		c.mu.Unlock()

		err = c.closeAll(ctx, resources)
	})

	return err
}

func (c *Closer) closeAll(ctx context.Context, resources []resource) error {
	var errs []string

	closed := 0
	for closed < len(resources) {
		r := resources[len(resources)-1-closed]
		finished, err := c.closeOne(ctx, r)
		if !finished {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("[!] %s: %v", r.name, err))
		}
		closed++
	}

	if closed == len(resources) {
		if len(errs) > 0 {
			return fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errs, "\n"))
		}
		return nil
	}

	remaining := resources[:len(resources)-closed]
	c.logger.Warnf("shutdown deadline exceeded, force closing %d resource(s)", len(remaining))
	errs = append(errs, c.forceClose(remaining)...)

	return fmt.Errorf(
		"shutdown interrupted after %d/%d resources:\n%s",
		closed,
		len(resources),
		strings.Join(errs, "\n"),
	)
}

// closeOne ждёт закрытия ресурса не дольше, чем живёт ctx.
// finished == false означает, что ctx истёк раньше.
func (c *Closer) closeOne(ctx context.Context, r resource) (finished bool, err error) {
	done := make(chan error, 1)
	go func() {
		done <- r.close(ctx)
	}()

	select {
	case err := <-done:
		if err == nil {
			c.logger.Debugf("%s closed", r.name)
		}
		return true, err
	case <-ctx.Done():
		return false, nil
	}
}

func (c *Closer) forceClose(resources []resource) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, r := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("[FORCED] %s: %v", r.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
