// Package offer computes the Maximum Allowable Offer for an exit strategy and
// classifies whether an asking price is worth pursuing.
package offer

import (
	"fmt"
	"math"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

type Input struct {
	ARV            float64
	RepairEstimate float64
	Strategy       domain.ExitStrategy
	HoldingMonths  float64
}

type Calculator struct {
	policy policy.OfferPolicy
}

func NewCalculator(p policy.Policy) *Calculator {
	return &Calculator{policy: p.Offer}
}

// Calculate applies
//
//	MAO = ARV × pct − repairs − holdingMonths × holdingCost − targetProfit − assignmentFee
//
// then takes closing costs off the running MAO and clamps the result at zero.
func (c *Calculator) Calculate(in Input) domain.OfferResult {
	p := c.policy
	strategy := in.Strategy
	if _, ok := p.Strategies[strategy]; !ok {
		strategy = domain.StrategyDefault
	}
	terms := p.Terms(strategy)

	arv := math.Max(in.ARV, 0)
	repairs := math.Max(in.RepairEstimate, 0)
	months := math.Max(in.HoldingMonths, 0)

	b := domain.OfferBreakdown{
		ARV:             arv,
		MaxOfferPercent: money.Ratio(terms.MaxOfferPercent),
		ARVShare:        arv * terms.MaxOfferPercent,
		Repairs:         repairs,
		HoldingMonths:   months,
		HoldingCosts:    months * p.HoldingCostPerMonth,
		TargetProfit:    p.TargetProfit,
		AssignmentFee:   terms.AssignmentFee,
	}

	mao := b.ARVShare - b.Repairs - b.HoldingCosts - b.TargetProfit - b.AssignmentFee
	b.ClosingCosts = mao * p.ClosingCostPercent
	mao -= b.ClosingCosts

	clamped := false
	if mao < 0 {
		mao = 0
		clamped = true
	}
	if b.ClosingCosts < 0 {
		b.ClosingCosts = 0
	}

	b.ARV = money.Dollars(b.ARV)
	b.ARVShare = money.Dollars(b.ARVShare)
	b.Repairs = money.Dollars(b.Repairs)
	b.HoldingCosts = money.Dollars(b.HoldingCosts)
	b.TargetProfit = money.Dollars(b.TargetProfit)
	b.AssignmentFee = money.Dollars(b.AssignmentFee)
	b.ClosingCosts = money.Dollars(b.ClosingCosts)

	return domain.OfferResult{
		Strategy:       strategy,
		MAO:            money.Dollars(mao),
		SuggestedOffer: money.Dollars(mao * p.SuggestedOfferRatio),
		CounterLow:     money.Dollars(mao * p.CounterLowRatio),
		CounterHigh:    money.Dollars(mao * p.CounterHighRatio),
		Breakdown:      b,
		Note:           note(strategy, terms, p),
		Clamped:        clamped,
	}
}

func note(s domain.ExitStrategy, t policy.StrategyTerms, p policy.OfferPolicy) string {
	pct := t.MaxOfferPercent * 100
	closing := p.ClosingCostPercent * 100
	switch s {
	case domain.StrategyWholesale:
		return fmt.Sprintf("Wholesale: %.0f%% of ARV less repairs, holding, profit, a $%.0f assignment fee and %.1f%% closing costs", pct, t.AssignmentFee, closing)
	case domain.StrategySubjectTo:
		return fmt.Sprintf("Subject-to: %.0f%% of ARV less repairs, holding, profit and %.1f%% closing costs; existing loan stays in place", pct, closing)
	case domain.StrategyWraparound:
		return fmt.Sprintf("Wraparound: %.0f%% of ARV less repairs, holding, profit and %.1f%% closing costs; seller carries the wrap note", pct, closing)
	default:
		return fmt.Sprintf("Standard: %.0f%% of ARV less repairs, holding, profit and %.1f%% closing costs", pct, closing)
	}
}
