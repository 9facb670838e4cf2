package storage

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
)

type seedFile struct {
	Properties  []Row `json:"properties"`
	Comparables []Row `json:"comparables"`
	Buyers      []Row `json:"buyers"`
}

// LoadSeedFromFile reads a JSON document with properties, comparables and buyers arrays.
// Rows use the same loose column names as a sheet export.
func LoadSeedFromFile(path string) (SeedData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, eris.Wrapf(err, "read seed file %s", path)
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (SeedData, error) {
	var f seedFile
	if err := json.Unmarshal(b, &f); err != nil {
		return SeedData{}, eris.Wrap(err, "unmarshal seed")
	}
	data := SeedData{
		Properties:  make([]domain.PropertyRecord, 0, len(f.Properties)),
		Comparables: DecodeComparables(f.Comparables),
		Buyers:      DecodeBuyers(f.Buyers),
	}
	for _, r := range f.Properties {
		data.Properties = append(data.Properties, DecodeProperty(r))
	}
	return data, nil
}
