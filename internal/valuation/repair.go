package valuation

import (
	"fmt"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/money"
)

// EstimateRepairs prices the rehab from square footage and condition signals.
func (e *Estimator) EstimateRepairs(sqft float64, c domain.ConditionSignals) domain.RepairEstimate {
	p := e.repair
	if sqft < 0 {
		sqft = 0
	}

	rate := e.ratePerSqft(c.Overall)
	var items []domain.RepairLineItem
	var subtotal float64
	add := func(item string, amount float64) {
		subtotal += amount
		items = append(items, domain.RepairLineItem{Item: item, Amount: money.Dollars(amount)})
	}

	add(fmt.Sprintf("base rehab (%.0f sqft at $%.2f/sqft)", sqft, rate), sqft*rate)

	if c.RoofAge > p.RoofAgeThreshold {
		add(fmt.Sprintf("roof replacement (%d years old)", c.RoofAge), p.RoofCost)
	}
	if c.HVACAge > p.HVACAgeThreshold {
		cost := p.HVACCost
		if sqft > p.HVACLargeHomeSqft {
			cost += p.HVACLargeHomeExtra
		}
		add(fmt.Sprintf("HVAC replacement (%d years old)", c.HVACAge), cost)
	}
	if c.Plumbing > 0 && c.Plumbing < p.SystemConditionThreshold {
		add(fmt.Sprintf("plumbing (rated %d/10)", c.Plumbing), p.PlumbingBase+p.PlumbingPerSqft*sqft)
	}
	if c.Electrical > 0 && c.Electrical < p.SystemConditionThreshold {
		add(fmt.Sprintf("electrical (rated %d/10)", c.Electrical), p.ElectricalBase+p.ElectricalPerSqft*sqft)
	}
	if c.FoundationIssue {
		add("foundation repair", p.FoundationCost)
	}
	switch c.Cosmetic {
	case domain.CosmeticLight:
		add("cosmetic (light)", p.CosmeticLight)
	case domain.CosmeticMedium:
		add("cosmetic (medium)", p.CosmeticMedium)
	case domain.CosmeticHeavy:
		add("cosmetic (heavy)", p.CosmeticHeavy)
	}

	contingency := subtotal * p.ContingencyPercent
	items = append(items, domain.RepairLineItem{
		Item:   fmt.Sprintf("contingency (%.0f%%)", p.ContingencyPercent*100),
		Amount: money.Dollars(contingency),
	})
	total := subtotal + contingency

	est := domain.RepairEstimate{
		Total:       money.Dollars(total),
		Items:       items,
		Contingency: money.Dollars(contingency),
		RatePerSqft: money.Cents(rate),
	}
	if sqft > 0 {
		est.CostPerSqft = money.Cents(total / sqft)
	}

	switch {
	case c.InspectionReport:
		est.Confidence = domain.ConfidenceHigh
	case !c.Any():
		est.Confidence = domain.ConfidenceLow
	default:
		est.Confidence = domain.ConfidenceMedium
	}
	return est
}

// ratePerSqft interpolates linearly from the max rate at condition 1 to the min rate at condition 10.
func (e *Estimator) ratePerSqft(condition int) float64 {
	p := e.repair
	if condition <= 0 {
		condition = p.DefaultCondition
	}
	cond := money.Clamp(float64(condition), 1, 10)
	return p.MinRatePerSqft + (10-cond)/9*(p.MaxRatePerSqft-p.MinRatePerSqft)
}
