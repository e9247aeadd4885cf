package registry

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// ErrBlobStoreUnavailable is returned while the blob-store breaker is
// open. Callers see a fast storage failure instead of waiting on a
// backend that keeps erroring.
var ErrBlobStoreUnavailable = errors.New("blob store unavailable")

// BreakerBlobStore wraps a BlobStore with a circuit breaker. The
// breaker trips after consecutive failures and resets on an
// exponential backoff schedule. Not-found and already-exists results
// are outcomes, not faults; they never count against the breaker.
type BreakerBlobStore struct {
	inner   types.BlobStore
	breaker *circuit.Breaker
}

var _ types.BlobStore = (*BreakerBlobStore)(nil)

// NewBreakerBlobStore wraps inner. The breaker trips after five
// consecutive faults.
func NewBreakerBlobStore(inner types.BlobStore) *BreakerBlobStore {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = time.Second
	expBackoff.MaxElapsedTime = 0

	opts := &circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	}
	return &BreakerBlobStore{
		inner:   inner,
		breaker: circuit.NewBreakerWithOptions(opts),
	}
}

// call runs fn under the breaker, treating the sentinel outcomes as
// success so behavioral errors cannot trip it.
func (b *BreakerBlobStore) call(fn func() error) error {
	if !b.breaker.Ready() {
		return ErrBlobStoreUnavailable
	}

	var outcome error
	err := b.breaker.Call(func() error {
		err := fn()
		if errors.Is(err, types.ErrBlobNotFound) || errors.Is(err, types.ErrBlobExists) {
			outcome = err
			return nil
		}
		return err
	}, 0)
	if err != nil {
		return err
	}
	return outcome
}

// Put stores bytes through the breaker.
func (b *BreakerBlobStore) Put(ctx context.Context, name, version string, r io.Reader) (int64, error) {
	var n int64
	err := b.call(func() error {
		var putErr error
		n, putErr = b.inner.Put(ctx, name, version, r)
		return putErr
	})
	return n, err
}

// Get opens bytes through the breaker.
func (b *BreakerBlobStore) Get(ctx context.Context, name, version string) (io.ReadCloser, int64, error) {
	var (
		rc   io.ReadCloser
		size int64
	)
	err := b.call(func() error {
		var getErr error
		rc, size, getErr = b.inner.Get(ctx, name, version)
		return getErr
	})
	if err != nil {
		return nil, 0, err
	}
	return rc, size, nil
}

// Exists checks the key through the breaker.
func (b *BreakerBlobStore) Exists(ctx context.Context, name, version string) (bool, error) {
	var ok bool
	err := b.call(func() error {
		var exErr error
		ok, exErr = b.inner.Exists(ctx, name, version)
		return exErr
	})
	return ok, err
}
