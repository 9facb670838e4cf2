package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name string
		p    domain.PropertyRecord
		want Location
	}{
		{
			name: "full address",
			p:    domain.PropertyRecord{Address: "1421 Maple Street, Dayton, OH 45402"},
			want: Location{Zip: "45402", State: "OH", City: "Dayton", Keywords: []string{"maple", "dayton"}},
		},
		{
			name: "zip plus four",
			p:    domain.PropertyRecord{Address: "77 North Elm Ave, Springfield, IL 62704-1234"},
			want: Location{Zip: "62704", State: "IL", City: "Springfield", Keywords: []string{"springfield"}},
		},
		{
			name: "structured fields win",
			p:    domain.PropertyRecord{Address: "9 Birch Road", City: "Akron", State: "oh", Zip: "44301"},
			want: Location{Zip: "44301", State: "OH", City: "Akron", Keywords: []string{"birch"}},
		},
		{
			name: "city before state and zip in one part",
			p:    domain.PropertyRecord{Address: "123 Main St, Austin TX 78701"},
			want: Location{Zip: "78701", State: "TX", City: "Austin", Keywords: []string{"main", "austin"}},
		},
		{
			name: "house number is not a zip",
			p:    domain.PropertyRecord{Address: "12345 Oak Street"},
			want: Location{Keywords: []string{}},
		},
		{
			name: "bare trailing zip",
			p:    domain.PropertyRecord{Address: "88 Cedar Lane 45402"},
			want: Location{Zip: "45402", Keywords: []string{"cedar"}},
		},
		{
			name: "street only",
			p:    domain.PropertyRecord{Address: "500 West Lakeview Drive"},
			want: Location{Keywords: []string{"lakeview"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocation(tt.p))
		})
	}
}

func TestSubstringLocationMatcher(t *testing.T) {
	m := NewSubstringLocationMatcher(policy.DefaultPolicy().Match)
	loc := ParseLocation(domain.PropertyRecord{Address: "1421 Maple Street, Dayton, OH 45402"})

	tests := []struct {
		name  string
		prefs string
		want  float64
	}{
		{"zip", "45402, 45403", 25},
		{"city", "Dayton metro", 25},
		{"state code", "anywhere in OH", 15},
		{"state code inside a word", "Johnstown", 0},
		{"keyword", "Maple Heights", 10},
		{"nothing", "Phoenix, AZ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := m.MatchLocation(loc, tt.prefs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got > 0, reason != "")
		})
	}
}

func TestSubstringLocationMatcher_CityWithoutSeparateComma(t *testing.T) {
	m := NewSubstringLocationMatcher(policy.DefaultPolicy().Match)

	got, reason := m.MatchLocation(ParseLocation(domain.PropertyRecord{Address: "123 Main St, Austin TX 78701"}), "Austin")
	assert.Equal(t, 25.0, got)
	assert.Equal(t, "city Austin is a preferred area", reason)

	got, _ = m.MatchLocation(ParseLocation(domain.PropertyRecord{Address: "12345 Oak Street"}), "12345, 45402")
	assert.Equal(t, 0.0, got)
}
