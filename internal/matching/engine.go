// Package matching scores buyers against a deal and returns the ranked matches above the
// policy threshold, each with the reasons behind its score.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

const (
	LabelVeryHigh = "very high"
	LabelHigh     = "high"
	LabelMedium   = "medium"
	LabelLow      = "low"
)

type Engine struct {
	policy     policy.MatchPolicy
	cfg        Config
	location   LocationMatcher
	strategies strategyTable
	now        func() time.Time
}

func NewEngine(p policy.MatchPolicy, cfg Config) *Engine {
	return &Engine{
		policy:     p,
		cfg:        cfg,
		location:   NewSubstringLocationMatcher(p),
		strategies: newStrategyTable(p.StrategyOverrides),
		now:        time.Now,
	}
}

// WithLocationMatcher returns a copy of the engine using m for the location axis.
func (e *Engine) WithLocationMatcher(m LocationMatcher) *Engine {
	c := *e
	c.location = m
	return &c
}

// WithClock returns a copy of the engine that measures buyer recency against now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	c := *e
	c.now = now
	return &c
}

// Match scores every active buyer against the property, drops results under the minimum score
// and ranks the rest by descending score. Equal scores keep the order of buyers.
func (e *Engine) Match(p domain.PropertyRecord, buyers []domain.BuyerRecord) ([]domain.MatchResult, error) {
	if strings.TrimSpace(p.Address) == "" {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "property %q has no address", p.ID)
	}
	if p.Archived() {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "property %q is archived", p.ID)
	}
	if buyers == nil {
		return nil, eris.Wrap(domain.ErrMissingCollaborator, "buyer population")
	}

	loc := ParseLocation(p)
	now := e.now()
	scored := make([]domain.MatchResult, len(buyers))
	eligible := make([]bool, len(buyers))

	score := func(i int) {
		b := buyers[i]
		if !b.Active {
			return
		}
		scored[i] = e.scoreOne(p, loc, b, now)
		eligible[i] = true
	}

	if e.cfg.Workers > 1 && len(buyers) > 1 {
		idx := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < e.cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					score(i)
				}
			}()
		}
		for i := range buyers {
			idx <- i
		}
		close(idx)
		wg.Wait()
	} else {
		for i := range buyers {
			score(i)
		}
	}

	out := make([]domain.MatchResult, 0, len(buyers))
	for i, r := range scored {
		if eligible[i] && r.Score >= e.policy.MinScore {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if e.cfg.Limit > 0 && len(out) > e.cfg.Limit {
		out = out[:e.cfg.Limit]
	}
	return out, nil
}

// Score computes a single buyer's match without applying the threshold or the active flag.
func (e *Engine) Score(p domain.PropertyRecord, b domain.BuyerRecord) domain.MatchResult {
	return e.scoreOne(p, ParseLocation(p), b, e.now())
}

func (e *Engine) scoreOne(p domain.PropertyRecord, loc Location, b domain.BuyerRecord, now time.Time) domain.MatchResult {
	var subs domain.SubScores
	reasons := make([]string, 0, 5)
	add := func(dst *float64, points float64, reason string) {
		points = money.Percent(points)
		if points <= 0 {
			return
		}
		*dst = points
		reasons = append(reasons, reason)
	}

	points, reason := e.budget(p.Price(), b.MaxBudget)
	add(&subs.Budget, points, reason)
	points, reason = e.strategy(p.DealType, b.InvestmentType)
	add(&subs.Strategy, points, reason)
	points, reason = e.locationScore(loc, b.PreferredAreas)
	add(&subs.Location, points, reason)
	if b.CashVerified {
		add(&subs.Verification, e.policy.VerificationBonus, "cash verified")
	}
	points, reason = e.recency(b.CreatedAt, now)
	add(&subs.Recency, points, reason)

	total := math.Round(money.Clamp(subs.Total(), 0, 100))
	return domain.MatchResult{
		Buyer:      b,
		Property:   p,
		Score:      total,
		Confidence: e.Label(total),
		SubScores:  subs,
		Reasons:    reasons,
	}
}

func (e *Engine) budget(price, maxBudget float64) (float64, string) {
	m := e.policy
	switch {
	case maxBudget <= 0:
		return m.MissingBudgetScore, "no budget on file"
	case price <= 0:
		// an unknown price reads as $0, which sits at 0% of the budget
		return m.BudgetMax, "no price on file, read as $0 against the budget"
	case price <= maxBudget:
		return m.BudgetMax * (maxBudget - price) / maxBudget,
			fmt.Sprintf("price $%.0f is %.0f%% of max budget $%.0f", price, price/maxBudget*100, maxBudget)
	case price <= maxBudget*(1+m.OverBudgetTolerance):
		return m.OverBudgetScore, fmt.Sprintf("price $%.0f is slightly over max budget $%.0f", price, maxBudget)
	default:
		return 0, ""
	}
}

func (e *Engine) strategy(dealType, investmentType string) (float64, string) {
	if strings.TrimSpace(investmentType) == "" {
		return e.policy.MissingStrategyScore, "no investment type preference"
	}
	if e.strategies.compatible(dealType, investmentType) {
		return e.policy.StrategyMax, fmt.Sprintf("investment type %q fits %s deal", investmentType, dealType)
	}
	return 0, ""
}

func (e *Engine) locationScore(loc Location, preferredAreas string) (float64, string) {
	if strings.TrimSpace(preferredAreas) == "" {
		return e.policy.MissingLocationScore, "no area preference"
	}
	return e.location.MatchLocation(loc, preferredAreas)
}

func (e *Engine) recency(createdAt, now time.Time) (float64, string) {
	if createdAt.IsZero() {
		return 0, ""
	}
	days := int(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	switch {
	case days <= e.policy.RecentDays:
		return e.policy.RecentBonus, fmt.Sprintf("added %d days ago", days)
	case days <= e.policy.ModerateDays:
		return e.policy.ModerateBonus, fmt.Sprintf("added %d days ago", days)
	default:
		return 0, ""
	}
}

// Label maps a total score to its confidence label.
func (e *Engine) Label(score float64) string {
	switch {
	case score >= e.policy.VeryHighLabel:
		return LabelVeryHigh
	case score >= e.policy.HighLabel:
		return LabelHigh
	case score >= e.policy.MediumLabel:
		return LabelMedium
	default:
		return LabelLow
	}
}
