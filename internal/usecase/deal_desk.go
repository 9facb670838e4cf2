package usecase

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/pipeline"
)

// DealDesk loads snapshots from the repository, runs the engine on them and stores the
// classification it produces. The engine itself never touches the repository.
type DealDesk struct {
	repo      DealRepository
	evaluator *pipeline.Evaluator
	matcher   *matching.Engine
}

// NewDealDesk creates a new instance of the usecase.
func NewDealDesk(repo DealRepository, evaluator *pipeline.Evaluator, matcher *matching.Engine) *DealDesk {
	return &DealDesk{repo: repo, evaluator: evaluator, matcher: matcher}
}

// Evaluate runs the pipeline over an inline property and comps without persisting anything.
func (d *DealDesk) Evaluate(p domain.PropertyRecord, comps []domain.ComparableSale) pipeline.Evaluation {
	return d.evaluator.Evaluate(p, comps)
}

// Match ranks an inline buyer population against an inline property.
func (d *DealDesk) Match(p domain.PropertyRecord, buyers []domain.BuyerRecord) ([]domain.MatchResult, error) {
	return d.matcher.Match(p, buyers)
}

// EvaluateProperty re-values a stored property from its stored comps and saves the updated record.
func (d *DealDesk) EvaluateProperty(ctx context.Context, id string) (pipeline.Evaluation, error) {
	p, err := d.repo.GetProperty(ctx, id)
	if err != nil {
		return pipeline.Evaluation{}, eris.Wrapf(err, "could not get property %s", id)
	}
	comps, err := d.repo.ListComparables(ctx, id)
	if err != nil {
		return pipeline.Evaluation{}, eris.Wrapf(err, "could not get comparables for %s", id)
	}

	ev := d.evaluator.Evaluate(p, comps)

	saved, err := d.repo.SaveProperty(ctx, ev.Property)
	if err != nil {
		return pipeline.Evaluation{}, eris.Wrapf(err, "could not save property %s", id)
	}
	ev.Property = saved
	return ev, nil
}

// MatchProperty ranks the stored buyer population against a stored property.
func (d *DealDesk) MatchProperty(ctx context.Context, id string) ([]domain.MatchResult, error) {
	p, err := d.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "could not get property %s", id)
	}
	buyers, err := d.repo.ListBuyers(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "could not get buyers")
	}
	return d.matcher.Match(p, buyers)
}

// CreateProperty stores a new property. The repository assigns an id when none is given.
func (d *DealDesk) CreateProperty(ctx context.Context, p domain.PropertyRecord) (domain.PropertyRecord, error) {
	if strings.TrimSpace(p.Address) == "" {
		return domain.PropertyRecord{}, eris.Wrap(domain.ErrInvalidInput, "address is required")
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	saved, err := d.repo.SaveProperty(ctx, p)
	if err != nil {
		return domain.PropertyRecord{}, eris.Wrap(err, "could not save property")
	}
	return saved, nil
}

func (d *DealDesk) GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error) {
	return d.repo.GetProperty(ctx, id)
}

func (d *DealDesk) ListProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.PropertyRecord, int, error) {
	return d.repo.ListProperties(ctx, f)
}

// ArchiveProperty retires a property; archived records are kept but no longer matched.
func (d *DealDesk) ArchiveProperty(ctx context.Context, id string) error {
	return d.repo.ArchiveProperty(ctx, id)
}
