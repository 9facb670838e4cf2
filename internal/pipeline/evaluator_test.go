package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

func comps() []domain.ComparableSale {
	return []domain.ComparableSale{
		{SalePrice: 200_000, SquareFeet: 1400, Bedrooms: 3, Bathrooms: 2, YearBuilt: 1995, Condition: 7},
		{SalePrice: 210_000, SquareFeet: 1500, Bedrooms: 3, Bathrooms: 2, YearBuilt: 2000, Condition: 9},
		{SalePrice: 205_000, SquareFeet: 1600, Bedrooms: 4, Bathrooms: 2.5, YearBuilt: 2005, Condition: 8},
	}
}

func property() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:          "p-1",
		Address:     "412 Elm St, Springfield, IL 62704",
		SquareFeet:  1500,
		Bedrooms:    3,
		Bathrooms:   2,
		YearBuilt:   2000,
		Condition:   domain.ConditionSignals{Overall: 6},
		AskingPrice: 60_000,
		DealType:    "Wholesaling",
		Signals: domain.DealSignals{
			SellerMotivation:  0.9,
			LocationScore:     0.8,
			MarketTrend:       "up",
			DaysOnMarket:      120,
			SellerReliability: 1,
		},
		Status: domain.StatusActive,
	}
}

func TestEvaluate_StagesFeedEachOther(t *testing.T) {
	e := NewEvaluator(policy.DefaultPolicy())
	in := property()

	ev := e.Evaluate(in, comps())

	assert.Equal(t, 205_333.0, ev.Valuation.ARV)
	assert.Equal(t, 57_750.0, ev.Repairs.Total)
	assert.Equal(t, domain.ValuationUpdate{ARV: 205_333, RepairEstimate: 57_750, Confidence: domain.ConfidenceHigh}, ev.ValuationStep)

	assert.Equal(t, domain.StrategyWholesale, ev.Offer.Strategy)
	assert.Equal(t, 205_333.0, ev.Offer.Breakdown.ARV)
	assert.Equal(t, 57_750.0, ev.Offer.Breakdown.Repairs)
	assert.Equal(t, 4.0, ev.Offer.Breakdown.HoldingMonths, "default holding period")
	assert.Equal(t, ev.Offer.MAO, ev.OfferStep.MAO)
	assert.Equal(t, 53_334.0, ev.Offer.MAO)
	assert.Equal(t, domain.Negotiable, ev.Viability.Status)

	assert.Equal(t, 87.6, ev.Verdict.DealScore)
	assert.Equal(t, domain.StrongBuy, ev.Verdict.Recommendation)
	assert.Equal(t, domain.ClassificationUpdate{DealScore: 87.6, RiskScore: 0, DealClass: domain.StrongBuy}, ev.Classification)

	out := ev.Property
	assert.Equal(t, 205_333.0, out.ARV)
	assert.Equal(t, 57_750.0, out.RepairEstimate)
	assert.Equal(t, domain.ConfidenceHigh, out.ValuationConfidence)
	assert.Equal(t, ev.Offer.MAO, out.MAO)
	assert.Equal(t, domain.StrongBuy, out.DealClass)
	assert.Equal(t, domain.StatusActive, out.Status)

	assert.Equal(t, property(), in, "input record is not mutated")
}

func TestEvaluate_PassArchives(t *testing.T) {
	e := NewEvaluator(policy.DefaultPolicy())
	p := property()
	p.AskingPrice = 300_000
	p.Signals = domain.DealSignals{MarketTrend: "declining"}

	ev := e.Evaluate(p, comps())

	assert.Equal(t, domain.Pass, ev.Verdict.Recommendation)
	assert.Equal(t, domain.StatusArchived, ev.Classification.Status)
	assert.True(t, ev.Property.Archived())
}

func TestEvaluate_FallbacksWithoutComps(t *testing.T) {
	e := NewEvaluator(policy.DefaultPolicy())

	p := property()
	p.EstimatedValue = 180_000
	ev := e.Evaluate(p, nil)
	assert.True(t, ev.Valuation.Fallback)
	assert.Equal(t, 180_000.0, ev.Property.ARV)
	assert.Equal(t, domain.ConfidenceLow, ev.Property.ValuationConfidence)

	stated := domain.PropertyRecord{ID: "p-2", Address: "1 Main St", ARV: 150_000, RepairEstimate: 25_000}
	ev = e.Evaluate(stated, nil)
	assert.Equal(t, 150_000.0, ev.Property.ARV)
	assert.Equal(t, 25_000.0, ev.Repairs.Total)
	assert.Equal(t, 25_000.0, ev.Offer.Breakdown.Repairs)
	assert.Equal(t, domain.InsufficientData, ev.Viability.Status)
}

func TestEvaluate_StrategyAndHoldingFromRecord(t *testing.T) {
	e := NewEvaluator(policy.DefaultPolicy())
	p := property()
	p.DealType = "Sub2"
	p.HoldingMonths = 6
	p.MonthlyRent = 1_600
	p.Mortgage = domain.MortgageTerms{Balance: 140_000, MonthlyPayment: 1_100, InterestRate: 3.75, RemainingTermYears: 24}

	ev := e.Evaluate(p, comps())

	assert.Equal(t, domain.StrategySubjectTo, ev.Offer.Strategy)
	assert.Equal(t, 80.0, ev.Offer.Breakdown.MaxOfferPercent)
	assert.Equal(t, 6.0, ev.Offer.Breakdown.HoldingMonths)
	assert.Equal(t, domain.StrategySubjectTo, ev.Verdict.Variant)
	assert.Equal(t, 500.0, ev.Verdict.MonthlyCashFlow)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEvaluator(policy.DefaultPolicy())

	first := e.Evaluate(property(), comps())
	second := e.Evaluate(property(), comps())
	require.Equal(t, first, second)

	again := e.Evaluate(first.Property, comps())
	assert.Equal(t, first.Property.MAO, again.Property.MAO)
	assert.Equal(t, first.Verdict, again.Verdict)
}
