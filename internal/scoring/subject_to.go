package scoring

import (
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
)

// EvaluateSubjectTo scores a deal that takes over the seller's existing loan.
// Equity position and monthly cash flow stand in for the equity ratio, and the
// risk score starts from a due-on-sale floor.
func (s *Scorer) EvaluateSubjectTo(p domain.PropertyRecord) domain.DealVerdict {
	dealScore, factors := s.SubjectToScore(p)
	riskScore := s.SubjectToRisk(p)
	cashFlow := MonthlyCashFlow(p)
	spread := p.ARV - (p.Mortgage.Balance + p.RepairEstimate)

	v := domain.DealVerdict{
		PropertyID:         p.ID,
		Variant:            domain.StrategySubjectTo,
		DealScore:          dealScore,
		RiskScore:          riskScore,
		SuccessProbability: s.SuccessProbability(dealScore, riskScore),
		Recommendation:     recommend(s.subjectTo.Tiers, dealScore, riskScore, spread, cashFlow),
		EquitySpread:       money.Dollars(spread),
		MonthlyCashFlow:    money.Dollars(cashFlow),
		Factors:            factors,
	}
	v.Analysis = s.Analyze(p, v)
	return v
}

// MonthlyCashFlow is rent less the existing mortgage payment.
func MonthlyCashFlow(p domain.PropertyRecord) float64 {
	return p.MonthlyRent - p.Mortgage.MonthlyPayment
}

func (s *Scorer) SubjectToScore(p domain.PropertyRecord) (float64, []domain.FactorContribution) {
	st := s.subjectTo
	w := st.Weights

	var equity float64
	if p.ARV > 0 {
		equity = (p.ARV - p.Mortgage.Balance) / p.ARV
	}

	factors := []struct {
		name   string
		weight float64
		value  float64
	}{
		{"equity_position", w.EquityPosition, money.Clamp01(equity / st.EquityCeiling)},
		{"cash_flow", w.CashFlow, saturate(MonthlyCashFlow(p), st.CashFlowCeiling)},
		{"interest_rate", w.InterestRate, s.rateFactor(p.Mortgage.InterestRate)},
		{"remaining_term", w.Term, saturate(p.Mortgage.RemainingTermYears, st.TermCeilingYears)},
		{"seller_motivation", w.Motivation, money.Clamp01(p.Signals.SellerMotivation)},
		{"condition", w.Condition, s.conditionFactor(p.Condition.Overall)},
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

func (s *Scorer) SubjectToRisk(p domain.PropertyRecord) float64 {
	st := s.subjectTo
	m := p.Mortgage
	score := st.BaseRisk

	if m.LatePayments {
		score += st.LatePayments
	}
	if m.PriorBankruptcy {
		score += st.Bankruptcy
	}
	if m.MultipleLiens {
		score += st.MultipleLiens
	}
	if m.AdjustableRate {
		score += st.AdjustableRate
	}
	if m.BalloonPayment {
		score += st.Balloon
	}
	return money.Percent(money.Clamp(score, 0, 100))
}

// rateFactor maps a note rate to 0..1, lower being better. Rates under 1 are read as
// fractions (0.045 == 4.5%); an unknown rate is neutral.
func (s *Scorer) rateFactor(rate float64) float64 {
	if rate <= 0 {
		return 0.5
	}
	if rate < 1 {
		rate *= 100
	}
	st := s.subjectTo
	return money.Clamp01((st.WorstRate - rate) / (st.WorstRate - st.BestRate))
}
