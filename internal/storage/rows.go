package storage

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

// Row is a loosely typed record as it arrives from a sheet export or a JSON request body.
// Keys are matched ignoring case, spaces and underscores, so "Asking Price" finds asking_price.
// Absent or unparseable values read as zero.
type Row map[string]any

func (r Row) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[foldKey(k)] = struct{}{}
	}
	for k, v := range r {
		if _, ok := want[foldKey(k)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func foldKey(k string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(k))
}

func (r Row) String(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Float reads numbers, numeric strings and currency strings such as "$180,000" or "4.5%".
func (r Row) Float(keys ...string) float64 {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return finite(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return finite(f)
	case string:
		return parseAmount(t)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (r Row) Int(keys ...string) int {
	return int(math.Round(r.Float(keys...)))
}

// Bool accepts true/false, yes/no, y/n and 1/0.
func (r Row) Bool(keys ...string) bool {
	v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		f, _ := t.Float64()
		return f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "t", "x":
			return true
		}
	}
	return false
}

// Time reads RFC 3339 timestamps and plain dates.
func (r Row) Time(keys ...string) time.Time {
	s := r.String(keys...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly, "01/02/2006", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseAmount(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "", " ", "", "%", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// group returns the nested object stored under key, as produced by marshaling a PropertyRecord.
// A flat row, where the group's fields sit beside the others, is returned as is.
func (r Row) group(key string) Row {
	if v, ok := r.lookup(key); ok {
		if m, ok := v.(map[string]any); ok {
			return Row(m)
		}
	}
	return r
}

// DecodeProperty maps a row onto a PropertyRecord. Condition, mortgage and signal fields are read
// from nested "condition", "mortgage" and "signals" objects when present, otherwise from the flat row.
func DecodeProperty(r Row) domain.PropertyRecord {
	cond, mort, sig := r.group("condition"), r.group("mortgage"), r.group("signals")
	return domain.PropertyRecord{
		ID:         r.String("id", "property_id"),
		Address:    r.String("address"),
		City:       r.String("city"),
		State:      r.String("state"),
		Zip:        r.String("zip", "zip_code", "postal_code"),
		SquareFeet: r.Float("square_feet", "sqft"),
		Bedrooms:   r.Int("bedrooms", "beds"),
		Bathrooms:  r.Float("bathrooms", "baths"),
		YearBuilt:  r.Int("year_built"),
		LotSize:    r.Float("lot_size"),
		Condition: domain.ConditionSignals{
			Overall:          cond.Int("overall", "condition", "overall_condition"),
			RoofAge:          cond.Int("roof_age"),
			HVACAge:          cond.Int("hvac_age"),
			Plumbing:         cond.Int("plumbing", "plumbing_condition"),
			Electrical:       cond.Int("electrical", "electrical_condition"),
			FoundationIssue:  cond.Bool("foundation_issue", "foundation_issues"),
			Cosmetic:         domain.ParseCosmeticTier(cond.String("cosmetic", "cosmetic_level")),
			InspectionReport: cond.Bool("inspection_report"),
		},
		PostRepairCondition: r.Int("post_repair_condition"),
		AskingPrice:         r.Float("asking_price", "price"),
		MonthlyRent:         r.Float("monthly_rent", "rent"),
		Mortgage: domain.MortgageTerms{
			Balance:            mort.Float("balance", "mortgage_balance", "loan_balance"),
			MonthlyPayment:     mort.Float("monthly_payment", "mortgage_payment"),
			InterestRate:       mort.Float("interest_rate"),
			RemainingTermYears: mort.Float("remaining_term_years", "remaining_term"),
			AdjustableRate:     mort.Bool("adjustable_rate", "arm"),
			BalloonPayment:     mort.Bool("balloon_payment"),
			LatePayments:       mort.Bool("late_payments"),
			PriorBankruptcy:    mort.Bool("prior_bankruptcy", "bankruptcy"),
			MultipleLiens:      mort.Bool("multiple_liens"),
		},
		EstimatedValue: r.Float("estimated_value", "zestimate"),
		DealType:       r.String("deal_type", "exit_strategy"),
		HoldingMonths:  r.Float("holding_months"),
		Signals: domain.DealSignals{
			SellerMotivation:    sig.Float("seller_motivation", "motivation"),
			LocationScore:       sig.Float("location_score"),
			MarketTrend:         sig.String("market_trend"),
			DaysOnMarket:        sig.Int("days_on_market", "dom"),
			TitleIssues:         sig.Bool("title_issues"),
			SellerReliability:   sig.Float("seller_reliability"),
			FinancingContingent: sig.Bool("financing_contingent"),
			Probate:             sig.Bool("probate"),
			Divorce:             sig.Bool("divorce"),
			Liens:               sig.Bool("liens"),
		},
		ARV:                 r.Float("arv"),
		RepairEstimate:      r.Float("repair_estimate", "repairs"),
		ValuationConfidence: domain.Confidence(strings.ToLower(r.String("valuation_confidence"))),
		MAO:                 r.Float("mao"),
		DealScore:           r.Float("deal_score"),
		RiskScore:           r.Float("risk_score"),
		DealClass:           domain.Recommendation(strings.ToUpper(r.String("deal_class"))),
		Status:              domain.PropertyStatus(strings.ToLower(r.String("status"))),
		CreatedAt:           r.Time("created_at"),
	}
}

func DecodeComparable(r Row) domain.ComparableSale {
	return domain.ComparableSale{
		ID:         r.String("id", "comp_id"),
		PropertyID: r.String("property_id"),
		Address:    r.String("address"),
		SalePrice:  r.Float("sale_price", "sold_price", "price"),
		SquareFeet: r.Float("square_feet", "sqft"),
		Bedrooms:   r.Int("bedrooms", "beds"),
		Bathrooms:  r.Float("bathrooms", "baths"),
		YearBuilt:  r.Int("year_built"),
		Condition:  r.Int("condition"),
		SaleDate:   r.Time("sale_date", "sold_date"),
	}
}

// DecodeBuyer reads a buyer row. A row without an active column is treated as active.
func DecodeBuyer(r Row) domain.BuyerRecord {
	active := true
	if _, ok := r.lookup("active", "is_active"); ok {
		active = r.Bool("active", "is_active")
	}
	return domain.BuyerRecord{
		ID:             r.String("id", "buyer_id"),
		Name:           r.String("name"),
		Email:          r.String("email"),
		Phone:          r.String("phone"),
		MaxBudget:      r.Float("max_budget", "budget"),
		InvestmentType: r.String("investment_type", "strategy"),
		PreferredAreas: r.String("preferred_areas", "areas", "locations"),
		CashVerified:   r.Bool("cash_verified", "verified"),
		Active:         active,
		CreatedAt:      r.Time("created_at", "date_added"),
	}
}

func DecodeComparables(rows []Row) []domain.ComparableSale {
	out := make([]domain.ComparableSale, 0, len(rows))
	for _, r := range rows {
		out = append(out, DecodeComparable(r))
	}
	return out
}

func DecodeBuyers(rows []Row) []domain.BuyerRecord {
	out := make([]domain.BuyerRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, DecodeBuyer(r))
	}
	return out
}
