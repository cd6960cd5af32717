package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"looksapi/lookengine"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// Cached batches stay valid as long as the fingerprinted input does, but we
// still expire them so catalog edits that do not reach the fingerprint
// (deactivated products and the like) cannot serve forever.
const resultCacheExpiration = 24 * time.Hour

// LookResultStore keeps generated batches as JSON bytes, so every read
// hands back an independent copy of the batch.
type LookResultStore struct {
	cache *cache.Cache[[]byte]
}

func NewLookResultStore() (*LookResultStore, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,     // 1M
		MaxCost:     1 << 26, // 64MB of serialized batches
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)
	fmt.Println("Initialized LookResultStore with Ristretto cache!")
	return &LookResultStore{cache: cache.New[[]byte](ristrettoStore)}, nil
}

func (s *LookResultStore) Get(ctx context.Context, fingerprint string) (*lookengine.GenerateOutput, error) {
	payload, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		// gocache reports misses as errors, treat them as plain misses
		if _, ok := err.(*store.NotFound); ok {
			return nil, nil
		}
		if err.Error() == store.NOT_FOUND_ERR {
			return nil, nil
		}
		return nil, err
	}
	var output lookengine.GenerateOutput
	if err := json.Unmarshal(payload, &output); err != nil {
		return nil, fmt.Errorf("corrupt cached batch for %s: %w", fingerprint, err)
	}
	return &output, nil
}

func (s *LookResultStore) Set(ctx context.Context, fingerprint string, output *lookengine.GenerateOutput) error {
	payload, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, fingerprint, payload, store.WithExpiration(resultCacheExpiration))
}

func (s *LookResultStore) Delete(ctx context.Context, fingerprint string) error {
	return s.cache.Delete(ctx, fingerprint)
}
