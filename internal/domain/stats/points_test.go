package stats

import "testing"

func defaultTestTable() Table {
	return Table{
		StatTries:       4,
		StatTryAssists:  2,
		StatGoals:       1,
		StatTackles:     0.02,
		StatMetres:      0.01,
		StatErrors:      -1,
		StatYellowCards: -2,
		StatRedCards:    -4,
	}
}

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name   string
		record GameweekStats
		want   int
	}{
		{
			name:   "empty record scores zero",
			record: GameweekStats{},
			want:   0,
		},
		{
			name:   "tries and goals accumulate",
			record: GameweekStats{Tries: 2, Goals: 3, TryAssists: 1},
			want:   13,
		},
		{
			name:   "negative stats subtract",
			record: GameweekStats{Tries: 1, Errors: 2, YellowCards: 1},
			want:   0,
		},
		{
			name:   "fractional sum rounds half up",
			record: GameweekStats{Tackles: 25}, // 0.5
			want:   1,
		},
		{
			name:   "fractional sum below half rounds down",
			record: GameweekStats{Tackles: 24}, // 0.48
			want:   0,
		},
		{
			name:   "stats missing from the table contribute zero",
			record: GameweekStats{Offloads: 10, FortyTwenty: 3},
			want:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculatePoints(tc.record, defaultTestTable())
			if got != tc.want {
				t.Fatalf("expected %d points, got %d", tc.want, got)
			}
		})
	}
}

func TestCalculatePointsLinear(t *testing.T) {
	table := Table{
		StatTries:   4,
		StatGoals:   2,
		StatTackles: 1,
	}

	single := GameweekStats{Tries: 1, Goals: 2, Tackles: 10}
	double := GameweekStats{Tries: 2, Goals: 4, Tackles: 20}

	if got, want := CalculatePoints(double, table), 2*CalculatePoints(single, table); got != want {
		t.Fatalf("expected doubling raw counts to double points: got %d, want %d", got, want)
	}
}

func TestNewTable(t *testing.T) {
	table := NewTable([]ScoringRule{
		{StatName: StatTries, PointsValue: 4},
		{StatName: StatErrors, PointsValue: -1},
	})

	if len(table) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(table))
	}
	if table[StatTries] != 4 {
		t.Fatalf("expected tries to be worth 4, got %v", table[StatTries])
	}
	if table[StatErrors] != -1 {
		t.Fatalf("expected errors to be worth -1, got %v", table[StatErrors])
	}
}
