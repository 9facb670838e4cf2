package matching

import "runtime"

// Config controls how the engine runs. Scoring values live in policy.MatchPolicy.
type Config struct {
	// Workers is the number of goroutines scoring buyers; values below 2 score inline.
	Workers int `json:"workers"`
	// Limit caps the returned matches; 0 returns every match above the threshold.
	Limit int `json:"limit"`
}

// DefaultConfig scores on up to four workers and returns all matches.
func DefaultConfig() Config {
	w := runtime.NumCPU()
	if w > 4 {
		w = 4
	}
	return Config{Workers: w}
}
