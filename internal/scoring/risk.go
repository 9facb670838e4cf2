package scoring

import (
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
)

// RiskScore adds fixed penalties for each hazard present. It does not need to sum to 100.
func (s *Scorer) RiskScore(p domain.PropertyRecord) float64 {
	r := s.risk
	sig := p.Signals
	var score float64

	if sig.TitleIssues {
		score += r.TitleIssues
	}
	if p.Condition.FoundationIssue {
		score += r.Structural
	}
	if domain.ParseMarketTrend(sig.MarketTrend) == domain.TrendDown {
		score += r.DecliningMarket
	}
	score += (1 - money.Clamp01(sig.SellerReliability)) * r.SellerReliability
	if sig.FinancingContingent {
		score += r.FinancingContingent
	}
	if sig.LegalComplexity() {
		score += r.LegalComplexity
	}
	return money.Percent(money.Clamp(score, 0, 100))
}
