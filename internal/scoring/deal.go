// Package scoring turns a valued property into a deal verdict: a 0..100 deal score,
// an independent 0..100 risk score, a success probability and a recommendation tier.
package scoring

import (
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

type Scorer struct {
	deal      policy.DealPolicy
	risk      policy.RiskPolicy
	subjectTo policy.SubjectToPolicy
	analysis  policy.AnalysisPolicy
}

func NewScorer(p policy.Policy) *Scorer {
	return &Scorer{
		deal:      p.Deal,
		risk:      p.Risk,
		subjectTo: p.SubjectTo,
		analysis:  p.Analysis,
	}
}

// Evaluate scores the record with the variant that fits its deal type.
func (s *Scorer) Evaluate(p domain.PropertyRecord) domain.DealVerdict {
	if domain.ParseExitStrategy(p.DealType) == domain.StrategySubjectTo {
		return s.EvaluateSubjectTo(p)
	}
	return s.EvaluateWholesale(p)
}

// EvaluateWholesale is the default, equity-driven variant.
func (s *Scorer) EvaluateWholesale(p domain.PropertyRecord) domain.DealVerdict {
	dealScore, factors := s.DealScore(p)
	riskScore := s.RiskScore(p)
	spread := EquitySpread(p)

	v := domain.DealVerdict{
		PropertyID:         p.ID,
		Variant:            domain.StrategyWholesale,
		DealScore:          dealScore,
		RiskScore:          riskScore,
		SuccessProbability: s.SuccessProbability(dealScore, riskScore),
		Recommendation:     recommend(s.deal.Tiers, dealScore, riskScore, spread, 0),
		EquitySpread:       money.Dollars(spread),
		Factors:            factors,
	}
	v.Analysis = s.Analyze(p, v)
	return v
}

// PurchasePrice is the acquisition price used for equity: asking, or MAO when asking is unknown.
func PurchasePrice(p domain.PropertyRecord) float64 {
	if p.AskingPrice > 0 {
		return p.AskingPrice
	}
	return p.MAO
}

// EquitySpread is ARV less the total acquisition cost (purchase price plus repairs).
func EquitySpread(p domain.PropertyRecord) float64 {
	return p.ARV - (PurchasePrice(p) + p.RepairEstimate)
}

// DealScore is the weighted sum of seven factors, each normalized to 0..1.
func (s *Scorer) DealScore(p domain.PropertyRecord) (float64, []domain.FactorContribution) {
	w := s.deal.Weights
	var equityRatio float64
	if p.ARV > 0 {
		equityRatio = EquitySpread(p) / p.ARV
	}

	factors := []struct {
		name   string
		weight float64
		value  float64
	}{
		{"equity", w.Equity, money.Clamp01(equityRatio / s.deal.EquityRatioCeiling)},
		{"valuation_confidence", w.Confidence, s.confidenceScalar(p.ValuationConfidence)},
		{"condition", w.Condition, s.conditionFactor(p.Condition.Overall)},
		{"seller_motivation", w.Motivation, money.Clamp01(p.Signals.SellerMotivation)},
		{"location", w.Location, money.Clamp01(p.Signals.LocationScore)},
		{"market_trend", w.MarketTrend, s.trendScalar(p.Signals.MarketTrend)},
		{"days_on_market", w.DaysOnMarket, saturate(float64(p.Signals.DaysOnMarket), s.deal.DaysOnMarketCeiling)},
	}

	var sum float64
	out := make([]domain.FactorContribution, 0, len(factors))
	for _, f := range factors {
		contrib := f.weight * f.value
		sum += contrib
		out = append(out, domain.FactorContribution{
			Factor:     f.name,
			Normalized: money.Cents(f.value),
			Weight:     f.weight,
			Points:     money.Percent(contrib * 100),
		})
	}
	return money.Percent(money.Clamp(sum*100, 0, 100)), out
}

// SuccessProbability blends the deal score with the inverse of risk and never reports certainty.
func (s *Scorer) SuccessProbability(dealScore, riskScore float64) float64 {
	w := s.deal.ProbabilityWeight
	raw := w*dealScore + (1-w)*(100-riskScore)
	return money.Percent(money.Clamp(raw, s.deal.ProbabilityFloor, s.deal.ProbabilityCeiling))
}

func recommend(tiers []policy.Tier, dealScore, riskScore, equitySpread, cashFlow float64) domain.Recommendation {
	for _, t := range tiers {
		if t.Admits(dealScore, riskScore, equitySpread, cashFlow) {
			return t.Recommendation
		}
	}
	return domain.Pass
}

func (s *Scorer) confidenceScalar(c domain.Confidence) float64 {
	switch c {
	case domain.ConfidenceHigh:
		return s.deal.ConfidenceHigh
	case domain.ConfidenceMedium:
		return s.deal.ConfidenceMedium
	default:
		return s.deal.ConfidenceLow
	}
}

// conditionFactor inverts the 1..10 condition: a worse house is a bigger opportunity.
func (s *Scorer) conditionFactor(overall int) float64 {
	if overall <= 0 {
		return s.deal.UnknownCondition
	}
	return money.Clamp01((10 - money.Clamp(float64(overall), 1, 10)) / 9)
}

func (s *Scorer) trendScalar(label string) float64 {
	switch domain.ParseMarketTrend(label) {
	case domain.TrendUp:
		return s.deal.TrendUp
	case domain.TrendDown:
		return s.deal.TrendDown
	default:
		return s.deal.TrendStable
	}
}

// saturate ramps linearly from 0 to 1 at ceiling.
func saturate(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return money.Clamp01(v / ceiling)
}
