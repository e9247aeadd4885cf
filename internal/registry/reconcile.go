package registry

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// ReconcileReport summarizes one consistency sweep. Missing lists
// name@version pairs whose metadata exists but whose blob does not:
// the one partial-failure window a publish can leave behind when the
// compensating release also failed.
type ReconcileReport struct {
	Checked int      `json:"checked"`
	Missing []string `json:"missing"`
}

// Reconcile verifies that every version record has a backing blob,
// checking up to concurrency blobs in parallel. Missing blobs are
// reported, not repaired; the operator decides whether to re-publish
// or release the orphaned records.
func (r *Registry) Reconcile(ctx context.Context, concurrency int) (*ReconcileReport, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	records, err := r.meta.List(ctx)
	if err != nil {
		return nil, types.Wrap(types.KindStorage, err, "listing packages for reconciliation")
	}

	var (
		mu     sync.Mutex
		report ReconcileReport
	)
	sem := semaphore.NewWeighted(int64(concurrency))
	g, ctx := errgroup.WithContext(ctx)

	for _, rec := range records {
		for _, vr := range rec.Versions {
			name, ver := rec.Name, vr.Version
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, types.Wrap(types.KindStorage, err, "reconciliation canceled")
			}
			g.Go(func() error {
				defer sem.Release(1)
				ok, err := r.blobs.Exists(ctx, name, ver)
				if err != nil {
					return err
				}
				mu.Lock()
				report.Checked++
				if !ok {
					report.Missing = append(report.Missing, name+"@"+ver)
				}
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, types.Wrap(types.KindStorage, err, "verifying blobs")
	}

	sort.Strings(report.Missing)
	for _, key := range report.Missing {
		r.logger.Warn("version record has no backing blob", "artifact", key)
	}
	return &report, nil
}
