package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenk/backoff"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// downloadCounter applies download-count increments off the read path.
// Increments are eventually consistent: dispatched after the response
// is prepared, retried once on transient failure, and logged if they
// still cannot be applied. They are never silently swallowed.
type downloadCounter struct {
	meta   types.MetadataStore
	logger *slog.Logger
	wg     sync.WaitGroup
}

func newDownloadCounter(meta types.MetadataStore, logger *slog.Logger) *downloadCounter {
	return &downloadCounter{meta: meta, logger: logger}
}

// record schedules one increment for name. The caller's context is
// deliberately not used: the response has already been handed out and
// its cancellation must not lose the count.
func (c *downloadCounter) record(name string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.apply(name)
	}()
}

func (c *downloadCounter) apply(name string) {
	op := func() error {
		err := c.meta.IncrementDownloads(context.Background(), name)
		if errors.Is(err, types.ErrPackageNotFound) {
			// Nothing to count against; do not retry.
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(op, backoff.WithMaxRetries(policy, 1)); err != nil {
		c.logger.Warn("download count increment dropped", "package", name, "error", err)
	}
}

// wait blocks until all scheduled increments have been applied.
func (c *downloadCounter) wait() {
	c.wg.Wait()
}
