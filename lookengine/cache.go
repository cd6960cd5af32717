package lookengine

import "context"

// ResultStore keeps finished generation batches keyed by input fingerprint.
// Get returns (nil, nil) on a miss. Implementations must hand back a copy
// the caller may mutate freely.
type ResultStore interface {
	Get(ctx context.Context, fingerprint string) (*GenerateOutput, error)
	Set(ctx context.Context, fingerprint string, output *GenerateOutput) error
	Delete(ctx context.Context, fingerprint string) error
}
