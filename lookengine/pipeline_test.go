package lookengine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore keeps entries as JSON so reads hand back independent copies,
// the same way the ristretto-backed store does.
type memoryStore struct {
	entries map[string][]byte
	gets    int
	sets    int
	deletes int
	failSet bool
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string][]byte{}}
}

func (s *memoryStore) Get(ctx context.Context, fingerprint string) (*GenerateOutput, error) {
	s.gets++
	if s.failGet {
		return nil, errors.New("store unavailable")
	}
	payload, ok := s.entries[fingerprint]
	if !ok {
		return nil, nil
	}
	var output GenerateOutput
	if err := json.Unmarshal(payload, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

func (s *memoryStore) Set(ctx context.Context, fingerprint string, output *GenerateOutput) error {
	s.sets++
	if s.failSet {
		return errors.New("store unavailable")
	}
	payload, err := json.Marshal(output)
	if err != nil {
		return err
	}
	s.entries[fingerprint] = payload
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, fingerprint string) error {
	s.deletes++
	delete(s.entries, fingerprint)
	return nil
}

type stubRefiner struct {
	refine func(GenerateInput, GenerateOutput) (GenerateOutput, error)
	calls  int
}

func (r *stubRefiner) RefineCopy(ctx context.Context, input GenerateInput, output GenerateOutput) (GenerateOutput, error) {
	r.calls++
	return r.refine(input, output)
}

func TestPipelineGeneratesAndCaches(t *testing.T) {
	store := newMemoryStore()
	pipeline := &Pipeline{Store: store}
	input := consumerInput()

	first, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, first.Looks, LookCount)
	assert.Equal(t, 1, store.sets)

	second, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.sets, "cache hit must not rewrite the entry")
	assert.Equal(t, 2, store.gets)
}

func TestPipelineWorksWithoutStore(t *testing.T) {
	pipeline := &Pipeline{}
	output, err := pipeline.Generate(context.Background(), consumerInput())
	require.NoError(t, err)
	assert.Len(t, output.Looks, LookCount)
}

func TestPipelineEvictsInvalidCachedBatch(t *testing.T) {
	store := newMemoryStore()
	pipeline := &Pipeline{Store: store}
	input := consumerInput()

	// poison the cache with a batch that breaks the contract
	broken := ComposeLooks(input)
	broken.Looks = broken.Looks[:1]
	payload, err := json.Marshal(&broken)
	require.NoError(t, err)
	store.entries[Fingerprint(input)] = payload

	output, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, output.Looks, LookCount)
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, 1, store.sets, "regenerated batch must replace the evicted one")
}

func TestPipelineSurvivesStoreFailures(t *testing.T) {
	store := newMemoryStore()
	store.failGet = true
	store.failSet = true
	pipeline := &Pipeline{Store: store}

	output, err := pipeline.Generate(context.Background(), consumerInput())
	require.NoError(t, err)
	assert.Len(t, output.Looks, LookCount)
}

func TestPipelineRefinerRewritesCopy(t *testing.T) {
	refiner := &stubRefiner{refine: func(input GenerateInput, output GenerateOutput) (GenerateOutput, error) {
		output.Looks[0].Title = "Quiet confidence"
		output.Looks[0].Rationale = "Crisp layers that read polished without trying too hard."
		return output, nil
	}}
	pipeline := &Pipeline{Refiner: refiner}
	input := consumerInput()
	input.SmartCopy = true

	output, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, refiner.calls)
	assert.Equal(t, "Quiet confidence", output.Looks[0].Title)
}

func TestPipelineSkipsRefinerWithoutSmartCopy(t *testing.T) {
	refiner := &stubRefiner{refine: func(input GenerateInput, output GenerateOutput) (GenerateOutput, error) {
		return output, nil
	}}
	pipeline := &Pipeline{Refiner: refiner}

	_, err := pipeline.Generate(context.Background(), consumerInput())
	require.NoError(t, err)
	assert.Zero(t, refiner.calls)
}

func TestPipelineRefinerFailureKeepsOriginalCopy(t *testing.T) {
	refiner := &stubRefiner{refine: func(input GenerateInput, output GenerateOutput) (GenerateOutput, error) {
		return GenerateOutput{}, errors.New("model timeout")
	}}
	pipeline := &Pipeline{Refiner: refiner}
	input := consumerInput()
	input.SmartCopy = true

	baseline := ComposeLooks(input)
	output, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, baseline.Looks[0].Title, output.Looks[0].Title)
}

func TestPipelineRejectsRefinerStructureChanges(t *testing.T) {
	refiner := &stubRefiner{refine: func(input GenerateInput, output GenerateOutput) (GenerateOutput, error) {
		// an overeager rewrite that invents a purchasable item
		output.Looks[0].Items[0].CanPurchase = true
		return output, nil
	}}
	pipeline := &Pipeline{Refiner: refiner}
	input := consumerInput()
	input.SmartCopy = true

	output, err := pipeline.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, output.Looks[0].Items[0].CanPurchase)
}
