package stats

import "math"

// Table is the scoring configuration keyed by stat name.
type Table map[string]float64

// NewTable builds a lookup table from the stored scoring rules.
func NewTable(rules []ScoringRule) Table {
	table := make(Table, len(rules))
	for _, rule := range rules {
		table[rule.StatName] = rule.PointsValue
	}

	return table
}

// CalculatePoints derives one player's gameweek point total from raw stats
// and the scoring table. Stats absent from either side contribute zero. The
// accumulated sum is rounded to the nearest integer, half up.
func CalculatePoints(s GameweekStats, table Table) int {
	var total float64
	for name, count := range s.Counts() {
		value, ok := table[name]
		if !ok || count == 0 {
			continue
		}
		total += float64(count) * value
	}

	return roundHalfUp(total)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
