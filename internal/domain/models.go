package domain

import (
	"strings"
	"time"
)

type PropertyStatus string

const (
	StatusActive   PropertyStatus = "active"
	StatusArchived PropertyStatus = "archived"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type MarketTrend string

const (
	TrendUp     MarketTrend = "up"
	TrendStable MarketTrend = "stable"
	TrendDown   MarketTrend = "down"
)

// ParseMarketTrend maps free-text trend labels to a trend; anything unknown is stable.
func ParseMarketTrend(s string) MarketTrend {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "rising", "appreciating", "hot", "increasing":
		return TrendUp
	case "down", "declining", "falling", "depreciating", "decreasing":
		return TrendDown
	default:
		return TrendStable
	}
}

type ExitStrategy string

const (
	StrategyWholesale  ExitStrategy = "wholesale"
	StrategySubjectTo  ExitStrategy = "subject-to"
	StrategyWraparound ExitStrategy = "wraparound"
	StrategyDefault    ExitStrategy = "default"
)

// ParseExitStrategy maps a deal-type label ("Wholesaling", "Sub2", "wrap") to an offer strategy.
func ParseExitStrategy(s string) ExitStrategy {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	switch {
	case strings.HasPrefix(v, "wholesal"):
		return StrategyWholesale
	case strings.HasPrefix(v, "sub2"), strings.HasPrefix(v, "sub 2"), strings.HasPrefix(v, "subject to"), strings.HasPrefix(v, "subto"):
		return StrategySubjectTo
	case strings.HasPrefix(v, "wrap"):
		return StrategyWraparound
	default:
		return StrategyDefault
	}
}

type Recommendation string

const (
	StrongBuy Recommendation = "STRONG BUY"
	Buy       Recommendation = "BUY"
	Consider  Recommendation = "CONSIDER"
	Pass      Recommendation = "PASS"
)

type CosmeticTier string

const (
	CosmeticNone   CosmeticTier = ""
	CosmeticLight  CosmeticTier = "light"
	CosmeticMedium CosmeticTier = "medium"
	CosmeticHeavy  CosmeticTier = "heavy"
)

func ParseCosmeticTier(s string) CosmeticTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "low", "minor":
		return CosmeticLight
	case "medium", "moderate", "mid":
		return CosmeticMedium
	case "heavy", "high", "major", "full":
		return CosmeticHeavy
	default:
		return CosmeticNone
	}
}

// ConditionSignals holds inspection-style inputs. Ratings are 1..10, zero means not supplied.
type ConditionSignals struct {
	Overall          int          `json:"overall"`
	RoofAge          int          `json:"roof_age"`
	HVACAge          int          `json:"hvac_age"`
	Plumbing         int          `json:"plumbing"`
	Electrical       int          `json:"electrical"`
	FoundationIssue  bool         `json:"foundation_issue"`
	Cosmetic         CosmeticTier `json:"cosmetic"`
	InspectionReport bool         `json:"inspection_report"`
}

// Any reports whether at least one condition signal was supplied.
func (c ConditionSignals) Any() bool {
	return c.Overall > 0 || c.RoofAge > 0 || c.HVACAge > 0 || c.Plumbing > 0 ||
		c.Electrical > 0 || c.FoundationIssue || c.Cosmetic != CosmeticNone
}

type MortgageTerms struct {
	Balance            float64 `json:"balance"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	InterestRate       float64 `json:"interest_rate"`
	RemainingTermYears float64 `json:"remaining_term_years"`
	AdjustableRate     bool    `json:"adjustable_rate"`
	BalloonPayment     bool    `json:"balloon_payment"`
	LatePayments       bool    `json:"late_payments"`
	PriorBankruptcy    bool    `json:"prior_bankruptcy"`
	MultipleLiens      bool    `json:"multiple_liens"`
}

// DealSignals are the qualitative inputs of the deal and risk scores.
type DealSignals struct {
	SellerMotivation    float64 `json:"seller_motivation"`
	LocationScore       float64 `json:"location_score"`
	MarketTrend         string  `json:"market_trend"`
	DaysOnMarket        int     `json:"days_on_market"`
	TitleIssues         bool    `json:"title_issues"`
	SellerReliability   float64 `json:"seller_reliability"`
	FinancingContingent bool    `json:"financing_contingent"`
	Probate             bool    `json:"probate"`
	Divorce             bool    `json:"divorce"`
	Liens               bool    `json:"liens"`
}

// LegalComplexity reports probate, divorce or lien involvement.
func (s DealSignals) LegalComplexity() bool {
	return s.Probate || s.Divorce || s.Liens
}

type PropertyRecord struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	SquareFeet float64 `json:"square_feet"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	YearBuilt  int     `json:"year_built"`
	LotSize    float64 `json:"lot_size"`

	Condition           ConditionSignals `json:"condition"`
	PostRepairCondition int              `json:"post_repair_condition"`

	AskingPrice    float64       `json:"asking_price"`
	MonthlyRent    float64       `json:"monthly_rent"`
	Mortgage       MortgageTerms `json:"mortgage"`
	EstimatedValue float64       `json:"estimated_value"`
	DealType       string        `json:"deal_type"`
	HoldingMonths  float64       `json:"holding_months"`
	Signals        DealSignals   `json:"signals"`

	ARV                 float64        `json:"arv"`
	RepairEstimate      float64        `json:"repair_estimate"`
	ValuationConfidence Confidence     `json:"valuation_confidence"`
	MAO                 float64        `json:"mao"`
	DealScore           float64        `json:"deal_score"`
	RiskScore           float64        `json:"risk_score"`
	DealClass           Recommendation `json:"deal_class"`
	Status              PropertyStatus `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Price is the figure buyers are matched against: the asking price, or MAO when asking is unknown.
func (p PropertyRecord) Price() float64 {
	if p.AskingPrice > 0 {
		return p.AskingPrice
	}
	return p.MAO
}

func (p PropertyRecord) Archived() bool {
	return p.Status == StatusArchived
}

type ComparableSale struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Address    string    `json:"address"`
	SalePrice  float64   `json:"sale_price"`
	SquareFeet float64   `json:"square_feet"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	YearBuilt  int       `json:"year_built"`
	Condition  int       `json:"condition"`
	SaleDate   time.Time `json:"sale_date"`
}

type BuyerRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	MaxBudget      float64   `json:"max_budget"`
	InvestmentType string    `json:"investment_type"`
	PreferredAreas string    `json:"preferred_areas"`
	CashVerified   bool      `json:"cash_verified"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
