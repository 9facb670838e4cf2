// Package pipeline runs the valuation, offer and scoring stages in order. Each stage returns a
// partial update; the evaluator applies them to a copy of the record and never mutates its input.
package pipeline

import (
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/offer"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/scoring"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/valuation"
)

// Evaluation is everything one pass over a property produces.
type Evaluation struct {
	Property       domain.PropertyRecord       `json:"property"`
	Valuation      domain.ValuationResult      `json:"valuation"`
	Repairs        domain.RepairEstimate       `json:"repairs"`
	Offer          domain.OfferResult          `json:"offer"`
	Viability      domain.Viability            `json:"viability"`
	Verdict        domain.DealVerdict          `json:"verdict"`
	ValuationStep  domain.ValuationUpdate      `json:"valuation_update"`
	OfferStep      domain.OfferUpdate          `json:"offer_update"`
	Classification domain.ClassificationUpdate `json:"classification_update"`
}

type Evaluator struct {
	estimator     *valuation.Estimator
	offers        *offer.Calculator
	scorer        *scoring.Scorer
	holdingMonths float64
}

func NewEvaluator(p policy.Policy) *Evaluator {
	return &Evaluator{
		estimator:     valuation.NewEstimator(p),
		offers:        offer.NewCalculator(p),
		scorer:        scoring.NewScorer(p),
		holdingMonths: p.Offer.DefaultHoldingMonths,
	}
}

// Evaluate values the property from its comps, prices an offer and classifies the deal.
func (e *Evaluator) Evaluate(p domain.PropertyRecord, comps []domain.ComparableSale) Evaluation {
	var ev Evaluation

	ev.Valuation, ev.Repairs, ev.ValuationStep = e.Value(p, comps)
	rec := p.ApplyValuation(ev.ValuationStep)

	ev.Offer, ev.Viability, ev.OfferStep = e.Price(rec)
	rec = rec.ApplyOffer(ev.OfferStep)

	ev.Verdict, ev.Classification = e.Classify(rec)
	ev.Property = rec.ApplyClassification(ev.Classification)
	return ev
}

// Value estimates ARV and repairs. Without comps the record's estimated value (or a previously
// stored ARV) is the fallback.
func (e *Evaluator) Value(p domain.PropertyRecord, comps []domain.ComparableSale) (domain.ValuationResult, domain.RepairEstimate, domain.ValuationUpdate) {
	fallback := p.EstimatedValue
	if fallback <= 0 {
		fallback = p.ARV
	}
	val := e.estimator.EstimateARV(p, comps, fallback)

	var rep domain.RepairEstimate
	if p.SquareFeet <= 0 && !p.Condition.Any() && p.RepairEstimate > 0 {
		// nothing to estimate from; keep the figure already on the record
		rep = domain.RepairEstimate{
			Total:      p.RepairEstimate,
			Items:      []domain.RepairLineItem{{Item: "stated estimate", Amount: p.RepairEstimate}},
			Confidence: domain.ConfidenceLow,
		}
	} else {
		rep = e.estimator.EstimateRepairs(p.SquareFeet, p.Condition)
	}

	return val, rep, domain.ValuationUpdate{
		ARV:            val.ARV,
		RepairEstimate: rep.Total,
		Confidence:     val.Confidence,
	}
}

// Price computes the MAO for the record's exit strategy and checks it against the asking price.
func (e *Evaluator) Price(p domain.PropertyRecord) (domain.OfferResult, domain.Viability, domain.OfferUpdate) {
	months := p.HoldingMonths
	if months <= 0 {
		months = e.holdingMonths
	}
	res := e.offers.Calculate(offer.Input{
		ARV:            p.ARV,
		RepairEstimate: p.RepairEstimate,
		Strategy:       domain.ParseExitStrategy(p.DealType),
		HoldingMonths:  months,
	})
	return res, e.offers.Viability(res.MAO, p.AskingPrice), domain.OfferUpdate{MAO: res.MAO}
}

// Classify scores the deal. A PASS verdict archives the record; other verdicts leave the status alone.
func (e *Evaluator) Classify(p domain.PropertyRecord) (domain.DealVerdict, domain.ClassificationUpdate) {
	v := e.scorer.Evaluate(p)
	u := domain.ClassificationUpdate{
		DealScore: v.DealScore,
		RiskScore: v.RiskScore,
		DealClass: v.Recommendation,
	}
	if v.Recommendation == domain.Pass {
		u.Status = domain.StatusArchived
	}
	return v, u
}
