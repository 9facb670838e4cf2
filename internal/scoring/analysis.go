package scoring

import (
	"fmt"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

// Analyze tags strengths, weaknesses, opportunities and threats. The tags are explanatory
// only and are computed after the scores.
func (s *Scorer) Analyze(p domain.PropertyRecord, v domain.DealVerdict) domain.Analysis {
	a := s.analysis
	out := domain.Analysis{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Opportunities: []string{},
		Threats:       []string{},
	}

	if v.EquitySpread >= a.StrongEquitySpread {
		out.Strengths = append(out.Strengths, fmt.Sprintf("strong equity position ($%.0f spread)", v.EquitySpread))
	}
	if p.ValuationConfidence == domain.ConfidenceHigh {
		out.Strengths = append(out.Strengths, "well-supported valuation")
	}
	if p.Signals.SellerMotivation >= a.HighMotivation {
		out.Strengths = append(out.Strengths, "highly motivated seller")
	}
	if domain.ParseMarketTrend(p.Signals.MarketTrend) == domain.TrendUp {
		out.Strengths = append(out.Strengths, "appreciating market")
	}
	if v.Variant == domain.StrategySubjectTo && v.MonthlyCashFlow >= a.StrongCashFlow {
		out.Strengths = append(out.Strengths, fmt.Sprintf("strong monthly cash flow ($%.0f)", v.MonthlyCashFlow))
	}

	if p.ARV > 0 && p.RepairEstimate > p.ARV*a.HeavyRehabRatio {
		out.Weaknesses = append(out.Weaknesses, "heavy rehab required")
	}
	if p.ValuationConfidence == domain.ConfidenceLow {
		out.Weaknesses = append(out.Weaknesses, "thin or scattered comparables")
	}
	if v.EquitySpread < a.ThinEquitySpread {
		out.Weaknesses = append(out.Weaknesses, "thin margin")
	}
	if p.Condition.FoundationIssue {
		out.Weaknesses = append(out.Weaknesses, "structural issues")
	}

	if p.Signals.DaysOnMarket >= a.StaleDaysOnMarket {
		out.Opportunities = append(out.Opportunities, fmt.Sprintf("stale listing (%d days): room to negotiate", p.Signals.DaysOnMarket))
	}
	if p.AskingPrice > 0 && p.MAO >= p.AskingPrice {
		out.Opportunities = append(out.Opportunities, "asking price at or below MAO")
	}
	if p.ARV > 0 && p.MonthlyRent*12/p.ARV >= a.RentYield {
		out.Opportunities = append(out.Opportunities, "rental upside")
	}
	if p.Condition.Overall > 0 && p.Condition.Overall <= a.ValueAddCondition {
		out.Opportunities = append(out.Opportunities, "value-add renovation")
	}

	if domain.ParseMarketTrend(p.Signals.MarketTrend) == domain.TrendDown {
		out.Threats = append(out.Threats, "declining market")
	}
	if p.Signals.TitleIssues {
		out.Threats = append(out.Threats, "title defects")
	}
	if p.Signals.LegalComplexity() {
		out.Threats = append(out.Threats, "legal complexity (probate, divorce or liens)")
	}
	if p.Signals.FinancingContingent {
		out.Threats = append(out.Threats, "financing contingency")
	}
	return out
}
