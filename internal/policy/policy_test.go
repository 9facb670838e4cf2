package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultPolicy_Valid(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())
	assert.InDelta(t, 1.0, p.Deal.Weights.Sum(), 1e-9)
	assert.InDelta(t, 1.0, p.SubjectTo.Weights.Sum(), 1e-9)
	assert.Equal(t, 100.0, p.Match.MaxTotal())
}

func TestLoadPolicyFromFile_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, `{
		"match": {"min_score": 60},
		"offer": {"strategies": {"wholesale": {"max_offer_pct": 0.65, "assignment_fee": 12000}}}
	}`)

	p, err := LoadPolicyFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Match.MinScore)
	assert.Equal(t, 25.0, p.Match.StrategyMax)
	assert.Equal(t, 0.65, p.Offer.Strategies[domain.StrategyWholesale].MaxOfferPercent)
	assert.Equal(t, 0.80, p.Offer.Strategies[domain.StrategySubjectTo].MaxOfferPercent)
}

func TestLoadPolicyFromFile_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"bad json", func(t *testing.T) string { return writeFile(t, `{"match":`) }},
		{"invalid weights", func(t *testing.T) string { return writeFile(t, `{"deal": {"weights": {"equity": 0.9}}}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadPolicyFromFile(tt.path(t))
			assert.Error(t, err)
			assert.Equal(t, DefaultPolicy().Match.MinScore, p.Match.MinScore)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	p := DefaultPolicy()
	p.Deal.Weights.Equity = -0.1
	p.Offer.CounterLowRatio = 0.97
	p.Match.MinScore = 120
	p.Match.BudgetMax = 60
	delete(p.Offer.Strategies, domain.StrategyDefault)

	err := p.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"deal.equity must be >= 0",
		"deal weights should sum to 1.0",
		"counter ratios",
		"min_score",
		"axis maxima",
		`strategies must include "default"`,
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_MatchPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *MatchPolicy)
		want   string
	}{
		{"threshold under 50", func(m *MatchPolicy) { m.MinScore = 40 }, "min_score must be between 50 and 100"},
		{"state above location max", func(m *MatchPolicy) { m.StateScore = 30 }, "state_score must be in [0, location_max]"},
		{"keyword above location max", func(m *MatchPolicy) { m.KeywordScore = 26 }, "keyword_score"},
		{"missing location above max", func(m *MatchPolicy) { m.MissingLocationScore = 40 }, "missing_location_score"},
		{"missing budget above max", func(m *MatchPolicy) { m.MissingBudgetScore = 31 }, "missing_budget_score"},
		{"missing strategy above max", func(m *MatchPolicy) { m.MissingStrategyScore = -1 }, "missing_strategy_score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p.Match)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	p := DefaultPolicy()
	p.Match.MinScore = 50
	assert.NoError(t, p.Validate())
}

func TestLoadPolicyFromFile_RejectsLowThreshold(t *testing.T) {
	p, err := LoadPolicyFromFile(writeFile(t, `{"match": {"min_score": 30}}`))
	assert.Error(t, err)
	assert.Equal(t, 50.0, p.Match.MinScore)
}

func TestTierAdmits(t *testing.T) {
	strong := DefaultPolicy().Deal.Tiers[0]
	assert.True(t, strong.Admits(80, 20, 25_000, 0))
	assert.False(t, strong.Admits(80, 20, 15_000, 0), "equity floor")
	assert.False(t, strong.Admits(80, 35, 25_000, 0), "risk ceiling")

	consider := DefaultPolicy().Deal.Tiers[2]
	assert.True(t, consider.Admits(45, 60, -5_000, -100), "no money floors")
}
