package matching

import (
	"strings"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

type strategyPair struct{ a, b string }

// strategyTable holds explicit deal-type/investment-type verdicts. Lookups are symmetric.
type strategyTable map[strategyPair]bool

func newStrategyTable(pairs []policy.StrategyPair) strategyTable {
	t := make(strategyTable, len(pairs)*2)
	for _, p := range pairs {
		a, b := normalizeStrategy(p.DealType), normalizeStrategy(p.InvestmentType)
		if a == "" || b == "" {
			continue
		}
		t[strategyPair{a, b}] = p.Match
		t[strategyPair{b, a}] = p.Match
	}
	return t
}

// compatible reports whether a buyer's investment type fits the deal type. The buyer string may
// list several types ("fix & flip, rental"); any fitting option is enough. For each option an
// override entry decides first, then substring containment in either direction.
func (t strategyTable) compatible(dealType, investmentType string) bool {
	deal := normalizeStrategy(dealType)
	if deal == "" {
		return false
	}
	for _, opt := range strategyOptions(investmentType) {
		if verdict, ok := t.verdict(deal, opt); ok {
			if verdict {
				return true
			}
			continue
		}
		if strings.Contains(deal, opt) || strings.Contains(opt, deal) {
			return true
		}
	}
	return false
}

// verdict looks up the override for a pair. Without an exact entry, the entry whose terms are
// contained in the deal and the option wins ("wholesale buyer" hits "wholesale"); the longest such
// entry decides, and a negative verdict wins a tie.
func (t strategyTable) verdict(deal, opt string) (bool, bool) {
	if v, ok := t[strategyPair{deal, opt}]; ok {
		return v, true
	}
	best, found, verdict := 0, false, false
	for pair, v := range t {
		if !strings.Contains(deal, pair.a) || !strings.Contains(opt, pair.b) {
			continue
		}
		n := len(pair.a) + len(pair.b)
		if !found || n > best || (n == best && !v) {
			best, found, verdict = n, true, v
		}
	}
	return verdict, found
}

func strategyOptions(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := normalizeStrategy(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalizeStrategy(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
