// Package policy holds every weight, threshold and rate used by the deal engine.
//
// A Policy is passed by value into each engine component, so a market-specific
// policy can be swapped in without touching the scoring code.
package policy

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

type Policy struct {
	Valuation ValuationPolicy `json:"valuation"`
	Repair    RepairPolicy    `json:"repair"`
	Offer     OfferPolicy     `json:"offer"`
	Deal      DealPolicy      `json:"deal"`
	Risk      RiskPolicy      `json:"risk"`
	SubjectTo SubjectToPolicy `json:"subject_to"`
	Analysis  AnalysisPolicy  `json:"analysis"`
	Match     MatchPolicy     `json:"match"`
}

type ValuationPolicy struct {
	SqftAdjustment      float64 `json:"sqft_adjustment"`
	BedroomAdjustment   float64 `json:"bedroom_adjustment"`
	BathroomAdjustment  float64 `json:"bathroom_adjustment"`
	AgeAdjustment       float64 `json:"age_adjustment_per_year"`
	ConditionAdjustment float64 `json:"condition_adjustment_per_point"`
	PostRepairCondition int     `json:"post_repair_condition"`
	HighConfidenceCV    float64 `json:"high_confidence_cv"`
	MediumConfidenceCV  float64 `json:"medium_confidence_cv"`
}

type RepairPolicy struct {
	MinRatePerSqft           float64 `json:"min_rate_per_sqft"`
	MaxRatePerSqft           float64 `json:"max_rate_per_sqft"`
	DefaultCondition         int     `json:"default_condition"`
	RoofAgeThreshold         int     `json:"roof_age_threshold"`
	RoofCost                 float64 `json:"roof_cost"`
	HVACAgeThreshold         int     `json:"hvac_age_threshold"`
	HVACCost                 float64 `json:"hvac_cost"`
	HVACLargeHomeSqft        float64 `json:"hvac_large_home_sqft"`
	HVACLargeHomeExtra       float64 `json:"hvac_large_home_extra"`
	SystemConditionThreshold int     `json:"system_condition_threshold"`
	PlumbingBase             float64 `json:"plumbing_base"`
	PlumbingPerSqft          float64 `json:"plumbing_per_sqft"`
	ElectricalBase           float64 `json:"electrical_base"`
	ElectricalPerSqft        float64 `json:"electrical_per_sqft"`
	FoundationCost           float64 `json:"foundation_cost"`
	CosmeticLight            float64 `json:"cosmetic_light"`
	CosmeticMedium           float64 `json:"cosmetic_medium"`
	CosmeticHeavy            float64 `json:"cosmetic_heavy"`
	ContingencyPercent       float64 `json:"contingency_pct"`
}

// StrategyTerms are the per-exit-strategy inputs of the MAO formula.
type StrategyTerms struct {
	MaxOfferPercent float64 `json:"max_offer_pct"`
	AssignmentFee   float64 `json:"assignment_fee"`
}

type OfferPolicy struct {
	Strategies           map[domain.ExitStrategy]StrategyTerms `json:"strategies"`
	HoldingCostPerMonth  float64                               `json:"holding_cost_per_month"`
	TargetProfit         float64                               `json:"target_profit"`
	ClosingCostPercent   float64                               `json:"closing_cost_pct"`
	DefaultHoldingMonths float64                               `json:"default_holding_months"`
	SuggestedOfferRatio  float64                               `json:"suggested_offer_ratio"`
	CounterLowRatio      float64                               `json:"counter_low_ratio"`
	CounterHighRatio     float64                               `json:"counter_high_ratio"`
	NegotiableFraction   float64                               `json:"negotiable_fraction"`
}

// Terms returns the terms for a strategy, falling back to the default strategy.
func (o OfferPolicy) Terms(s domain.ExitStrategy) StrategyTerms {
	if t, ok := o.Strategies[s]; ok {
		return t
	}
	return o.Strategies[domain.StrategyDefault]
}

// Tier is one row of an ordered recommendation table; the first satisfied row wins.
// A nil dollar threshold is not checked.
type Tier struct {
	Recommendation  domain.Recommendation `json:"recommendation"`
	MinDealScore    float64               `json:"min_deal_score"`
	MaxRiskScore    float64               `json:"max_risk_score"`
	MinEquitySpread *float64              `json:"min_equity_spread,omitempty"`
	MinCashFlow     *float64              `json:"min_cash_flow,omitempty"`
}

// Admits reports whether the scores and dollar figures satisfy the tier.
func (t Tier) Admits(dealScore, riskScore, equitySpread, cashFlow float64) bool {
	if dealScore < t.MinDealScore || riskScore > t.MaxRiskScore {
		return false
	}
	if t.MinEquitySpread != nil && equitySpread < *t.MinEquitySpread {
		return false
	}
	if t.MinCashFlow != nil && cashFlow < *t.MinCashFlow {
		return false
	}
	return true
}

func dollars(v float64) *float64 { return &v }

type DealWeights struct {
	Equity       float64 `json:"equity"`
	Confidence   float64 `json:"confidence"`
	Condition    float64 `json:"condition"`
	Motivation   float64 `json:"motivation"`
	Location     float64 `json:"location"`
	MarketTrend  float64 `json:"market_trend"`
	DaysOnMarket float64 `json:"days_on_market"`
}

func (w DealWeights) Sum() float64 {
	return w.Equity + w.Confidence + w.Condition + w.Motivation + w.Location + w.MarketTrend + w.DaysOnMarket
}

type DealPolicy struct {
	Weights             DealWeights `json:"weights"`
	EquityRatioCeiling  float64     `json:"equity_ratio_ceiling"`
	ConfidenceHigh      float64     `json:"confidence_high"`
	ConfidenceMedium    float64     `json:"confidence_medium"`
	ConfidenceLow       float64     `json:"confidence_low"`
	UnknownCondition    float64     `json:"unknown_condition"`
	TrendUp             float64     `json:"trend_up"`
	TrendStable         float64     `json:"trend_stable"`
	TrendDown           float64     `json:"trend_down"`
	DaysOnMarketCeiling float64     `json:"days_on_market_ceiling"`
	ProbabilityWeight   float64     `json:"probability_deal_weight"`
	ProbabilityFloor    float64     `json:"probability_floor"`
	ProbabilityCeiling  float64     `json:"probability_ceiling"`
	Tiers               []Tier      `json:"tiers"`
}

type RiskPolicy struct {
	TitleIssues         float64 `json:"title_issues"`
	Structural          float64 `json:"structural"`
	DecliningMarket     float64 `json:"declining_market"`
	SellerReliability   float64 `json:"seller_reliability"`
	FinancingContingent float64 `json:"financing_contingent"`
	LegalComplexity     float64 `json:"legal_complexity"`
}

type SubjectToWeights struct {
	EquityPosition float64 `json:"equity_position"`
	CashFlow       float64 `json:"cash_flow"`
	InterestRate   float64 `json:"interest_rate"`
	Term           float64 `json:"term"`
	Motivation     float64 `json:"motivation"`
	Condition      float64 `json:"condition"`
}

func (w SubjectToWeights) Sum() float64 {
	return w.EquityPosition + w.CashFlow + w.InterestRate + w.Term + w.Motivation + w.Condition
}

type SubjectToPolicy struct {
	Weights          SubjectToWeights `json:"weights"`
	EquityCeiling    float64          `json:"equity_ceiling"`
	CashFlowCeiling  float64          `json:"cash_flow_ceiling"`
	BestRate         float64          `json:"best_rate_pct"`
	WorstRate        float64          `json:"worst_rate_pct"`
	TermCeilingYears float64          `json:"term_ceiling_years"`
	BaseRisk         float64          `json:"base_risk"`
	LatePayments     float64          `json:"late_payments"`
	Bankruptcy       float64          `json:"bankruptcy"`
	MultipleLiens    float64          `json:"multiple_liens"`
	AdjustableRate   float64          `json:"adjustable_rate"`
	Balloon          float64          `json:"balloon"`
	Tiers            []Tier           `json:"tiers"`
}

type AnalysisPolicy struct {
	StrongEquitySpread float64 `json:"strong_equity_spread"`
	ThinEquitySpread   float64 `json:"thin_equity_spread"`
	HeavyRehabRatio    float64 `json:"heavy_rehab_ratio"`
	HighMotivation     float64 `json:"high_motivation"`
	StaleDaysOnMarket  int     `json:"stale_days_on_market"`
	RentYield          float64 `json:"rent_yield"`
	ValueAddCondition  int     `json:"value_add_condition"`
	StrongCashFlow     float64 `json:"strong_cash_flow"`
}

// StrategyPair is an explicit deal-type/investment-type verdict that takes precedence
// over substring containment.
type StrategyPair struct {
	DealType       string `json:"deal_type"`
	InvestmentType string `json:"investment_type"`
	Match          bool   `json:"match"`
}

type MatchPolicy struct {
	BudgetMax            float64        `json:"budget_max"`
	OverBudgetTolerance  float64        `json:"over_budget_tolerance"`
	OverBudgetScore      float64        `json:"over_budget_score"`
	MissingBudgetScore   float64        `json:"missing_budget_score"`
	StrategyMax          float64        `json:"strategy_max"`
	MissingStrategyScore float64        `json:"missing_strategy_score"`
	LocationMax          float64        `json:"location_max"`
	StateScore           float64        `json:"state_score"`
	KeywordScore         float64        `json:"keyword_score"`
	MissingLocationScore float64        `json:"missing_location_score"`
	VerificationBonus    float64        `json:"verification_bonus"`
	RecentBonus          float64        `json:"recent_bonus"`
	RecentDays           int            `json:"recent_days"`
	ModerateBonus        float64        `json:"moderate_bonus"`
	ModerateDays         int            `json:"moderate_days"`
	MinScore             float64        `json:"min_score"`
	VeryHighLabel        float64        `json:"very_high_label"`
	HighLabel            float64        `json:"high_label"`
	MediumLabel          float64        `json:"medium_label"`
	StrategyOverrides    []StrategyPair `json:"strategy_overrides"`
}

// MaxTotal is the highest score the five match axes can add up to.
func (m MatchPolicy) MaxTotal() float64 {
	return m.BudgetMax + m.StrategyMax + m.LocationMax + m.VerificationBonus + m.RecentBonus
}

// DefaultPolicy returns the baseline policy.
func DefaultPolicy() Policy {
	return Policy{
		Valuation: ValuationPolicy{
			SqftAdjustment:      50,
			BedroomAdjustment:   5_000,
			BathroomAdjustment:  3_000,
			AgeAdjustment:       250,
			ConditionAdjustment: 2_500,
			PostRepairCondition: 9,
			HighConfidenceCV:    0.10,
			MediumConfidenceCV:  0.20,
		},
		Repair: RepairPolicy{
			MinRatePerSqft:           15,
			MaxRatePerSqft:           60,
			DefaultCondition:         5,
			RoofAgeThreshold:         20,
			RoofCost:                 12_000,
			HVACAgeThreshold:         15,
			HVACCost:                 6_000,
			HVACLargeHomeSqft:        2_000,
			HVACLargeHomeExtra:       2_500,
			SystemConditionThreshold: 5,
			PlumbingBase:             3_000,
			PlumbingPerSqft:          2,
			ElectricalBase:           2_500,
			ElectricalPerSqft:        1.5,
			FoundationCost:           15_000,
			CosmeticLight:            5_000,
			CosmeticMedium:           12_000,
			CosmeticHeavy:            25_000,
			ContingencyPercent:       0.10,
		},
		Offer: OfferPolicy{
			Strategies: map[domain.ExitStrategy]StrategyTerms{
				domain.StrategyWholesale:  {MaxOfferPercent: 0.70, AssignmentFee: 10_000},
				domain.StrategySubjectTo:  {MaxOfferPercent: 0.80},
				domain.StrategyWraparound: {MaxOfferPercent: 0.85},
				domain.StrategyDefault:    {MaxOfferPercent: 0.70},
			},
			HoldingCostPerMonth:  1_500,
			TargetProfit:         15_000,
			ClosingCostPercent:   0.03,
			DefaultHoldingMonths: 4,
			SuggestedOfferRatio:  0.85,
			CounterLowRatio:      0.90,
			CounterHighRatio:     0.95,
			NegotiableFraction:   0.85,
		},
		Deal: DealPolicy{
			Weights: DealWeights{
				Equity:       0.30,
				Confidence:   0.15,
				Condition:    0.10,
				Motivation:   0.15,
				Location:     0.10,
				MarketTrend:  0.10,
				DaysOnMarket: 0.10,
			},
			EquityRatioCeiling:  0.30,
			ConfidenceHigh:      1.0,
			ConfidenceMedium:    0.7,
			ConfidenceLow:       0.4,
			UnknownCondition:    0.5,
			TrendUp:             1.0,
			TrendStable:         0.6,
			TrendDown:           0.2,
			DaysOnMarketCeiling: 180,
			ProbabilityWeight:   0.7,
			ProbabilityFloor:    5,
			ProbabilityCeiling:  95,
			Tiers: []Tier{
				{Recommendation: domain.StrongBuy, MinDealScore: 75, MaxRiskScore: 30, MinEquitySpread: dollars(20_000)},
				{Recommendation: domain.Buy, MinDealScore: 60, MaxRiskScore: 50, MinEquitySpread: dollars(10_000)},
				{Recommendation: domain.Consider, MinDealScore: 45, MaxRiskScore: 60},
			},
		},
		Risk: RiskPolicy{
			TitleIssues:         25,
			Structural:          20,
			DecliningMarket:     15,
			SellerReliability:   15,
			FinancingContingent: 10,
			LegalComplexity:     15,
		},
		SubjectTo: SubjectToPolicy{
			Weights: SubjectToWeights{
				EquityPosition: 0.25,
				CashFlow:       0.25,
				InterestRate:   0.15,
				Term:           0.10,
				Motivation:     0.15,
				Condition:      0.10,
			},
			EquityCeiling:    0.30,
			CashFlowCeiling:  500,
			BestRate:         3,
			WorstRate:        8,
			TermCeilingYears: 30,
			BaseRisk:         20,
			LatePayments:     15,
			Bankruptcy:       20,
			MultipleLiens:    15,
			AdjustableRate:   10,
			Balloon:          15,
			Tiers: []Tier{
				{Recommendation: domain.StrongBuy, MinDealScore: 75, MaxRiskScore: 40, MinCashFlow: dollars(300)},
				{Recommendation: domain.Buy, MinDealScore: 60, MaxRiskScore: 55, MinCashFlow: dollars(150)},
				{Recommendation: domain.Consider, MinDealScore: 45, MaxRiskScore: 65},
			},
		},
		Analysis: AnalysisPolicy{
			StrongEquitySpread: 30_000,
			ThinEquitySpread:   10_000,
			HeavyRehabRatio:    0.25,
			HighMotivation:     0.7,
			StaleDaysOnMarket:  90,
			RentYield:          0.10,
			ValueAddCondition:  4,
			StrongCashFlow:     300,
		},
		Match: MatchPolicy{
			BudgetMax:            30,
			OverBudgetTolerance:  0.10,
			OverBudgetScore:      10,
			MissingBudgetScore:   15,
			StrategyMax:          25,
			MissingStrategyScore: 10,
			LocationMax:          25,
			StateScore:           15,
			KeywordScore:         10,
			MissingLocationScore: 12,
			VerificationBonus:    10,
			RecentBonus:          10,
			RecentDays:           30,
			ModerateBonus:        5,
			ModerateDays:         90,
			MinScore:             50,
			VeryHighLabel:        80,
			HighLabel:            70,
			MediumLabel:          50,
			StrategyOverrides: []StrategyPair{
				{DealType: "wholesaling", InvestmentType: "fix & flip", Match: true},
				{DealType: "wholesaling", InvestmentType: "wholesale", Match: true},
				{DealType: "buy & hold", InvestmentType: "rental", Match: true},
				{DealType: "subject-to", InvestmentType: "creative finance", Match: true},
				{DealType: "land", InvestmentType: "commercial", Match: false},
			},
		},
	}
}

// LoadPolicyFromFile reads a JSON policy on top of the defaults and validates the result.
// On any failure the defaults are returned together with the error.
func LoadPolicyFromFile(path string) (Policy, error) {
	p := DefaultPolicy()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrap(err, "read policy file")
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return DefaultPolicy(), eris.Wrap(err, "unmarshal policy")
	}
	if err := p.Validate(); err != nil {
		return DefaultPolicy(), err
	}
	return p, nil
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	var errs []string

	checkWeights := func(group string, weights map[string]float64, sum float64) {
		for name, w := range weights {
			if w < 0 {
				errs = append(errs, fmt.Sprintf("%s.%s must be >= 0", group, name))
			}
		}
		if math.Abs(sum-1) > 0.001 {
			errs = append(errs, fmt.Sprintf("%s weights should sum to 1.0, got %.3f", group, sum))
		}
	}

	dw := p.Deal.Weights
	checkWeights("deal", map[string]float64{
		"equity":         dw.Equity,
		"confidence":     dw.Confidence,
		"condition":      dw.Condition,
		"motivation":     dw.Motivation,
		"location":       dw.Location,
		"market_trend":   dw.MarketTrend,
		"days_on_market": dw.DaysOnMarket,
	}, dw.Sum())

	sw := p.SubjectTo.Weights
	checkWeights("subject_to", map[string]float64{
		"equity_position": sw.EquityPosition,
		"cash_flow":       sw.CashFlow,
		"interest_rate":   sw.InterestRate,
		"term":            sw.Term,
		"motivation":      sw.Motivation,
		"condition":       sw.Condition,
	}, sw.Sum())

	if p.Valuation.HighConfidenceCV <= 0 || p.Valuation.HighConfidenceCV >= p.Valuation.MediumConfidenceCV {
		errs = append(errs, "valuation: high_confidence_cv must be > 0 and < medium_confidence_cv")
	}
	if p.Repair.MinRatePerSqft < 0 || p.Repair.MinRatePerSqft > p.Repair.MaxRatePerSqft {
		errs = append(errs, "repair: min_rate_per_sqft must be >= 0 and <= max_rate_per_sqft")
	}
	if p.Repair.ContingencyPercent < 0 {
		errs = append(errs, "repair: contingency_pct must be >= 0")
	}

	o := p.Offer
	if _, ok := o.Strategies[domain.StrategyDefault]; !ok {
		errs = append(errs, "offer: strategies must include \"default\"")
	}
	for s, t := range o.Strategies {
		if t.MaxOfferPercent <= 0 || t.MaxOfferPercent > 1 {
			errs = append(errs, fmt.Sprintf("offer: %s max_offer_pct must be in (0,1]", s))
		}
		if t.AssignmentFee < 0 {
			errs = append(errs, fmt.Sprintf("offer: %s assignment_fee must be >= 0", s))
		}
	}
	if o.ClosingCostPercent < 0 || o.ClosingCostPercent >= 1 {
		errs = append(errs, "offer: closing_cost_pct must be in [0,1)")
	}
	if o.SuggestedOfferRatio <= 0 || o.SuggestedOfferRatio >= 1 {
		errs = append(errs, "offer: suggested_offer_ratio must be in (0,1)")
	}
	if o.CounterLowRatio <= 0 || o.CounterLowRatio >= o.CounterHighRatio || o.CounterHighRatio > 1 {
		errs = append(errs, "offer: counter ratios must satisfy 0 < low < high <= 1")
	}
	if o.NegotiableFraction <= 0 || o.NegotiableFraction > 1 {
		errs = append(errs, "offer: negotiable_fraction must be in (0,1]")
	}

	if p.Deal.ProbabilityFloor < 0 || p.Deal.ProbabilityFloor >= p.Deal.ProbabilityCeiling || p.Deal.ProbabilityCeiling > 100 {
		errs = append(errs, "deal: probability bounds must satisfy 0 <= floor < ceiling <= 100")
	}
	if p.Deal.ProbabilityWeight < 0 || p.Deal.ProbabilityWeight > 1 {
		errs = append(errs, "deal: probability_deal_weight must be in [0,1]")
	}
	if p.Deal.EquityRatioCeiling <= 0 || p.SubjectTo.EquityCeiling <= 0 {
		errs = append(errs, "equity ceilings must be > 0")
	}
	if p.SubjectTo.BestRate >= p.SubjectTo.WorstRate {
		errs = append(errs, "subject_to: best_rate_pct must be < worst_rate_pct")
	}

	m := p.Match
	if m.MaxTotal() > 100 {
		errs = append(errs, fmt.Sprintf("match: axis maxima should sum to at most 100, got %.1f", m.MaxTotal()))
	}
	if m.MinScore < 50 || m.MinScore > 100 {
		errs = append(errs, "match: min_score must be between 50 and 100")
	}
	for _, b := range []struct {
		name      string
		v, limit  float64
		limitName string
	}{
		{"state_score", m.StateScore, m.LocationMax, "location_max"},
		{"keyword_score", m.KeywordScore, m.LocationMax, "location_max"},
		{"missing_location_score", m.MissingLocationScore, m.LocationMax, "location_max"},
		{"over_budget_score", m.OverBudgetScore, m.BudgetMax, "budget_max"},
		{"missing_budget_score", m.MissingBudgetScore, m.BudgetMax, "budget_max"},
		{"missing_strategy_score", m.MissingStrategyScore, m.StrategyMax, "strategy_max"},
	} {
		if b.v < 0 || b.v > b.limit {
			errs = append(errs, fmt.Sprintf("match: %s must be in [0, %s]", b.name, b.limitName))
		}
	}
	if !(m.VeryHighLabel >= m.HighLabel && m.HighLabel >= m.MediumLabel) {
		errs = append(errs, "match: label breakpoints must be descending")
	}
	if m.RecentDays > m.ModerateDays {
		errs = append(errs, "match: recent_days must be <= moderate_days")
	}

	if len(errs) > 0 {
		return eris.Errorf("policy: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
