package valuation

import (
	"math"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

type Estimator struct {
	valuation policy.ValuationPolicy
	repair    policy.RepairPolicy
}

func NewEstimator(p policy.Policy) *Estimator {
	return &Estimator{valuation: p.Valuation, repair: p.Repair}
}

// EstimateARV adjusts every comp toward the target and averages the adjusted prices.
// Without usable comps the caller's fallback estimate is returned with low confidence.
func (e *Estimator) EstimateARV(target domain.PropertyRecord, comps []domain.ComparableSale, fallback float64) domain.ValuationResult {
	adjustments := make([]domain.CompAdjustment, 0, len(comps))
	values := make([]float64, 0, len(comps))

	for i, c := range comps {
		// A comp without a sale price carries no information.
		if c.SalePrice <= 0 {
			continue
		}
		adj := e.adjust(i, target, c)
		values = append(values, adj.AdjustedPrice)

		adj.SalePrice = money.Dollars(adj.SalePrice)
		adj.SquareFeet = money.Dollars(adj.SquareFeet)
		adj.Bedrooms = money.Dollars(adj.Bedrooms)
		adj.Bathrooms = money.Dollars(adj.Bathrooms)
		adj.Age = money.Dollars(adj.Age)
		adj.Condition = money.Dollars(adj.Condition)
		adj.AdjustedPrice = money.Dollars(adj.AdjustedPrice)
		adjustments = append(adjustments, adj)
	}

	if len(values) == 0 {
		arv := money.Dollars(math.Max(fallback, 0))
		return domain.ValuationResult{
			ARV:         arv,
			Confidence:  domain.ConfidenceLow,
			Low:         arv,
			High:        arv,
			Adjustments: []domain.CompAdjustment{},
			Fallback:    true,
		}
	}

	mean, std, lo, hi := stats(values)
	cv := math.Inf(1)
	if mean > 0 {
		cv = std / mean
	}

	res := domain.ValuationResult{
		ARV:         money.Dollars(math.Max(mean, 0)),
		Confidence:  e.confidence(cv),
		Low:         money.Dollars(math.Max(lo, 0)),
		High:        money.Dollars(math.Max(hi, 0)),
		CompCount:   len(values),
		Adjustments: adjustments,
	}
	if !math.IsInf(cv, 0) {
		res.CoefficientOfVariation = money.Ratio(cv)
	}
	return res
}

func (e *Estimator) adjust(index int, t domain.PropertyRecord, c domain.ComparableSale) domain.CompAdjustment {
	p := e.valuation
	adj := domain.CompAdjustment{Index: index, SalePrice: c.SalePrice}

	// Each adjustment needs both sides of the attribute; zero means unknown.
	if t.SquareFeet > 0 && c.SquareFeet > 0 {
		adj.SquareFeet = (t.SquareFeet - c.SquareFeet) * p.SqftAdjustment
	}
	if t.Bedrooms > 0 && c.Bedrooms > 0 {
		adj.Bedrooms = float64(t.Bedrooms-c.Bedrooms) * p.BedroomAdjustment
	}
	if t.Bathrooms > 0 && c.Bathrooms > 0 {
		adj.Bathrooms = (t.Bathrooms - c.Bathrooms) * p.BathroomAdjustment
	}
	if t.YearBuilt > 0 && c.YearBuilt > 0 {
		adj.Age = float64(t.YearBuilt-c.YearBuilt) * p.AgeAdjustment
	}
	if c.Condition > 0 {
		post := t.PostRepairCondition
		if post <= 0 {
			post = p.PostRepairCondition
		}
		adj.Condition = float64(post-c.Condition) * p.ConditionAdjustment
	}

	adj.AdjustedPrice = c.SalePrice + adj.SquareFeet + adj.Bedrooms + adj.Bathrooms + adj.Age + adj.Condition
	return adj
}

func (e *Estimator) confidence(cv float64) domain.Confidence {
	switch {
	case cv < e.valuation.HighConfidenceCV:
		return domain.ConfidenceHigh
	case cv < e.valuation.MediumConfidenceCV:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// stats returns mean, population standard deviation, min and max.
func stats(values []float64) (mean, std, lo, hi float64) {
	lo, hi = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(values)))
	return mean, std, lo, hi
}
