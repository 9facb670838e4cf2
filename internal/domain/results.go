package domain

// CompAdjustment is the per-comp breakdown behind an ARV.
type CompAdjustment struct {
	Index         int     `json:"index"`
	SalePrice     float64 `json:"sale_price"`
	SquareFeet    float64 `json:"square_feet_adjustment"`
	Bedrooms      float64 `json:"bedrooms_adjustment"`
	Bathrooms     float64 `json:"bathrooms_adjustment"`
	Age           float64 `json:"age_adjustment"`
	Condition     float64 `json:"condition_adjustment"`
	AdjustedPrice float64 `json:"adjusted_price"`
}

type ValuationResult struct {
	ARV                    float64          `json:"arv"`
	Confidence             Confidence       `json:"confidence"`
	CoefficientOfVariation float64          `json:"coefficient_of_variation_pct"`
	Low                    float64          `json:"low"`
	High                   float64          `json:"high"`
	CompCount              int              `json:"comp_count"`
	Adjustments            []CompAdjustment `json:"adjustments"`
	Fallback               bool             `json:"fallback"`
}

type RepairLineItem struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

type RepairEstimate struct {
	Total       float64          `json:"total"`
	Items       []RepairLineItem `json:"items"`
	Contingency float64          `json:"contingency"`
	Confidence  Confidence       `json:"confidence"`
	CostPerSqft float64          `json:"cost_per_sqft"`
	RatePerSqft float64          `json:"rate_per_sqft"`
}

type OfferBreakdown struct {
	ARV             float64 `json:"arv"`
	MaxOfferPercent float64 `json:"max_offer_pct"`
	ARVShare        float64 `json:"arv_share"`
	Repairs         float64 `json:"repairs"`
	HoldingMonths   float64 `json:"holding_months"`
	HoldingCosts    float64 `json:"holding_costs"`
	TargetProfit    float64 `json:"target_profit"`
	AssignmentFee   float64 `json:"assignment_fee"`
	ClosingCosts    float64 `json:"closing_costs"`
}

type OfferResult struct {
	Strategy       ExitStrategy   `json:"strategy"`
	MAO            float64        `json:"mao"`
	SuggestedOffer float64        `json:"suggested_offer"`
	CounterLow     float64        `json:"counter_low"`
	CounterHigh    float64        `json:"counter_high"`
	Breakdown      OfferBreakdown `json:"breakdown"`
	Note           string         `json:"note"`
	Clamped        bool           `json:"clamped"`
}

type ViabilityStatus string

const (
	InsufficientData  ViabilityStatus = "insufficient data"
	PursueImmediately ViabilityStatus = "pursue immediately"
	Negotiable        ViabilityStatus = "negotiable"
	PassGapTooLarge   ViabilityStatus = "pass"
)

type Viability struct {
	Status  ViabilityStatus `json:"status"`
	Surplus float64         `json:"surplus"`
	Gap     float64         `json:"gap"`
	Message string          `json:"message"`
}

type FactorContribution struct {
	Factor     string  `json:"factor"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Points     float64 `json:"points"`
}

type Analysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type DealVerdict struct {
	PropertyID         string               `json:"property_id"`
	Variant            ExitStrategy         `json:"variant"`
	DealScore          float64              `json:"deal_score"`
	RiskScore          float64              `json:"risk_score"`
	SuccessProbability float64              `json:"success_probability"`
	Recommendation     Recommendation       `json:"recommendation"`
	EquitySpread       float64              `json:"equity_spread"`
	MonthlyCashFlow    float64              `json:"monthly_cash_flow,omitempty"`
	Factors            []FactorContribution `json:"factors"`
	Analysis           Analysis             `json:"analysis"`
}

// SubScores is the per-axis breakdown of a buyer match.
type SubScores struct {
	Budget       float64 `json:"budget"`
	Strategy     float64 `json:"strategy"`
	Location     float64 `json:"location"`
	Verification float64 `json:"verification"`
	Recency      float64 `json:"recency"`
}

func (s SubScores) Total() float64 {
	return s.Budget + s.Strategy + s.Location + s.Verification + s.Recency
}

// NonZero counts the axes that contributed points.
func (s SubScores) NonZero() int {
	n := 0
	for _, v := range []float64{s.Budget, s.Strategy, s.Location, s.Verification, s.Recency} {
		if v > 0 {
			n++
		}
	}
	return n
}

type MatchResult struct {
	Buyer      BuyerRecord    `json:"buyer"`
	Property   PropertyRecord `json:"property"`
	Score      float64        `json:"score"`
	Confidence string         `json:"confidence"`
	SubScores  SubScores      `json:"sub_scores"`
	Reasons    []string       `json:"reasons"`
}

// Partial updates returned by the pipeline stages. Each stage owns a disjoint set of fields.

type ValuationUpdate struct {
	ARV            float64    `json:"arv"`
	RepairEstimate float64    `json:"repair_estimate"`
	Confidence     Confidence `json:"confidence"`
}

type OfferUpdate struct {
	MAO float64 `json:"mao"`
}

type ClassificationUpdate struct {
	DealScore float64        `json:"deal_score"`
	RiskScore float64        `json:"risk_score"`
	DealClass Recommendation `json:"deal_class"`
	Status    PropertyStatus `json:"status"`
}

// ApplyValuation returns a copy with the valuation fields set. MAO is cleared because it is
// derived from ARV and repairs and must be recomputed.
func (p PropertyRecord) ApplyValuation(u ValuationUpdate) PropertyRecord {
	p.ARV = nonNegative(u.ARV)
	p.RepairEstimate = nonNegative(u.RepairEstimate)
	p.ValuationConfidence = u.Confidence
	p.MAO = 0
	return p
}

func (p PropertyRecord) ApplyOffer(u OfferUpdate) PropertyRecord {
	p.MAO = nonNegative(u.MAO)
	return p
}

func (p PropertyRecord) ApplyClassification(u ClassificationUpdate) PropertyRecord {
	p.DealScore = u.DealScore
	p.RiskScore = u.RiskScore
	p.DealClass = u.DealClass
	if u.Status != "" {
		p.Status = u.Status
	}
	return p
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
