package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/annuaire-qc/directory/internal/places"
)

// DefaultMaxCandidates is the candidate limit for multiple mode. Zero returns
// every search hit.
const DefaultMaxCandidates = 0

// lookupConcurrency bounds in-flight detail lookups while expanding candidates.
const lookupConcurrency = 4

// PlaceProvider looks places up by identifier or free text.
type PlaceProvider interface {
	Details(ctx context.Context, id string) (*places.Place, error)
	TextSearch(ctx context.Context, query string) ([]places.Place, error)
}

// Lookup modes reported on a Result.
const (
	ModeDirect = "direct"
	ModeSearch = "search"
)

// Result holds either a single draft or a candidate list, never both.
type Result struct {
	Mode       string   `json:"mode"`
	Draft      *Draft   `json:"draft,omitempty"`
	Candidates []*Draft `json:"candidates,omitempty"`
}

// Drafts returns every draft in the result.
func (r *Result) Drafts() []*Draft {
	if r.Draft != nil {
		return []*Draft{r.Draft}
	}
	return r.Candidates
}

// Importer resolves user input into listing drafts.
type Importer struct {
	provider      PlaceProvider
	transformer   *Transformer
	maxCandidates int
}

// NewImporter creates an importer backed by the given provider.
func NewImporter(provider PlaceProvider, categories *CategoryTable) *Importer {
	return &Importer{
		provider:      provider,
		transformer:   NewTransformer(categories),
		maxCandidates: DefaultMaxCandidates,
	}
}

// SetMaxCandidates caps how many search hits multiple mode expands.
// n <= 0 removes the cap.
func (i *Importer) SetMaxCandidates(n int) {
	if n < 0 {
		n = 0
	}
	i.maxCandidates = n
}

// Categories returns the category table drafts are classified with.
func (i *Importer) Categories() *CategoryTable {
	return i.transformer.categories
}

// ImportPlace resolves input to drafts. A recognised identifier or Maps URL
// is looked up directly and always yields one draft. Anything else is
// searched together with address; wantMultiple returns every hit in provider
// order instead of the best one.
//
// Errors are ErrInvalidInput, ErrNotFound or a *places.UpstreamError. The
// importer does not check the quota.
func (i *Importer) ImportPlace(ctx context.Context, input, address string, wantMultiple bool) (*Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrInvalidInput
	}

	if id, ok := ParseLocator(input); ok {
		log.Printf("[IMPORT] Direct lookup for place %s", id)
		draft, err := i.importByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeDirect, Draft: draft}, nil
	}

	query := strings.TrimSpace(input + " " + strings.TrimSpace(address))
	log.Printf("[IMPORT] Searching places for %q (multiple=%t)", query, wantMultiple)

	hits, err := i.provider.TextSearch(ctx, query)
	if err != nil {
		return nil, translate(err, query)
	}
	if len(hits) == 0 {
		return nil, notFound(query)
	}

	if !wantMultiple {
		draft, err := i.importByID(ctx, hits[0].PlaceID)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeSearch, Draft: draft}, nil
	}

	candidates, err := i.expand(ctx, hits)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, notFound(query)
	}
	log.Printf("[IMPORT] %d candidate(s) for %q", len(candidates), query)
	return &Result{Mode: ModeSearch, Candidates: candidates}, nil
}

// ImportByID fetches and transforms a single place.
func (i *Importer) ImportByID(ctx context.Context, id string) (*Draft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidInput
	}
	return i.importByID(ctx, id)
}

func (i *Importer) importByID(ctx context.Context, id string) (*Draft, error) {
	place, err := i.provider.Details(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	if place == nil {
		return nil, notFound(id)
	}
	draft := i.transformer.Transform(place)
	if draft.ExternalPlaceID == "" {
		draft.ExternalPlaceID = id
	}
	return draft, nil
}

// expand fetches details for each hit concurrently. Order follows the
// provider; hits that vanished between search and details are skipped.
func (i *Importer) expand(ctx context.Context, hits []places.Place) ([]*Draft, error) {
	if i.maxCandidates > 0 && len(hits) > i.maxCandidates {
		hits = hits[:i.maxCandidates]
	}

	drafts := make([]*Draft, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for idx, hit := range hits {
		g.Go(func() error {
			draft, err := i.importByID(gctx, hit.PlaceID)
			if errors.Is(err, ErrNotFound) {
				log.Printf("[IMPORT] Skipping candidate %s: %v", hit.PlaceID, err)
				return nil
			}
			if err != nil {
				return err
			}
			drafts[idx] = draft
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Draft, 0, len(drafts))
	for _, d := range drafts {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func translate(err error, subject string) error {
	if errors.Is(err, places.ErrNotFound) {
		return fmt.Errorf("%w: %q: %w", ErrNotFound, subject, err)
	}
	return err
}

func notFound(subject string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, subject)
}
