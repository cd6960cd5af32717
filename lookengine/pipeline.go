package lookengine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
)

// CopyRefiner rewrites the user-facing copy of a finished batch (titles,
// rationales, narration) without touching its structure. Implementations
// are free to call out to an LLM; the pipeline validates whatever comes
// back and quietly drops it if the structure changed.
type CopyRefiner interface {
	RefineCopy(ctx context.Context, input GenerateInput, output GenerateOutput) (GenerateOutput, error)
}

// Pipeline runs one generation end to end: cache lookup, composition,
// contract validation, optional copy refinement, enrichment, cache write.
// Store and Refiner may both be nil.
type Pipeline struct {
	Store   ResultStore
	Refiner CopyRefiner
}

func (p *Pipeline) Generate(ctx context.Context, input GenerateInput) (GenerateOutput, error) {
	fingerprint := Fingerprint(input)

	if p.Store != nil {
		cached, err := p.Store.Get(ctx, fingerprint)
		if err != nil {
			fmt.Printf("Look cache read failed for %v: %v\n", fingerprint, err)
			sentry.CaptureException(err)
		}
		if cached != nil {
			if violations := ValidateResult(input, *cached); len(violations) == 0 {
				EnrichResult(input, cached)
				return *cached, nil
			}
			// stale contract, evict and regenerate
			fmt.Printf("Evicting invalid cached looks for %v\n", fingerprint)
			if err := p.Store.Delete(ctx, fingerprint); err != nil {
				sentry.CaptureException(err)
			}
		}
	}

	output := ComposeLooks(input)
	if violations := ValidateResult(input, output); len(violations) > 0 {
		return GenerateOutput{}, fmt.Errorf("composed looks violate the contract: %v", strings.Join(violations, "; "))
	}

	if input.SmartCopy && p.Refiner != nil {
		// the refiner gets a deep copy so a misbehaving implementation
		// cannot mutate the validated batch in place
		refined, err := p.Refiner.RefineCopy(ctx, input, cloneOutput(output))
		if err != nil {
			fmt.Printf("Copy refinement failed, keeping original copy: %v\n", err)
			sentry.CaptureException(err)
		} else if violations := ValidateResult(input, refined); len(violations) > 0 {
			fmt.Printf("Refined copy broke the contract, keeping original: %v\n", strings.Join(violations, "; "))
			sentry.CaptureException(fmt.Errorf("copy refiner broke the look contract: %v", violations[0]))
		} else {
			output = refined
		}
	}

	EnrichResult(input, &output)

	if p.Store != nil {
		if err := p.Store.Set(ctx, fingerprint, &output); err != nil {
			fmt.Printf("Look cache write failed for %v: %v\n", fingerprint, err)
			sentry.CaptureException(err)
		}
	}
	return output, nil
}

func cloneOutput(output GenerateOutput) GenerateOutput {
	payload, err := json.Marshal(output)
	if err != nil {
		return output
	}
	var clone GenerateOutput
	if err := json.Unmarshal(payload, &clone); err != nil {
		return output
	}
	return clone
}
