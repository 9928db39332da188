package roster

import (
	"testing"

	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

func testSquad() (Squad, map[string]stats.GameweekStats) {
	_, starters, bench := testPool()
	squad := Squad{
		ID:        "squad-1",
		UserID:    "user-1",
		Starters:  starters,
		Bench:     bench,
		CaptainID: "s1",
	}

	records := make(map[string]stats.GameweekStats, SquadSize)
	for _, id := range squad.AllPlayerIDs() {
		records[id] = stats.GameweekStats{
			PlayerID:   id,
			GameweekID: "gw-1",
			Played:     true,
			Points:     2,
		}
	}

	return squad, records
}

func resultFor(t *testing.T, score GameweekScore, playerID string) PlayerResult {
	t.Helper()
	for _, r := range score.Results {
		if r.PlayerID == playerID {
			return r
		}
	}
	t.Fatalf("no result for player %s", playerID)
	return PlayerResult{}
}

func TestScoreGameweekCaptainDoubles(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	rec := records["s1"]
	rec.Points = 10
	records["s1"] = rec

	score := ScoreGameweek(squad, "gw-1", pool, records)

	captain := resultFor(t, score, "s1")
	if !captain.IsCaptain || captain.CaptainBonus != 10 {
		t.Fatalf("expected captain bonus of 10, got %+v", captain)
	}
	// 12 starters at 2 plus captain at 10 doubled.
	if want := 12*2 + 20; score.Total != want {
		t.Fatalf("expected total %d, got %d", want, score.Total)
	}
}

func TestScoreGameweekAutoSubstitution(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	// Starter winger s2 did not play; bench winger b1 did, worth 7.
	rec := records["s2"]
	rec.Played = false
	records["s2"] = rec
	bench := records["b1"]
	bench.Points = 7
	records["b1"] = bench

	score := ScoreGameweek(squad, "gw-1", pool, records)

	sub := resultFor(t, score, "b1")
	if !sub.SubstitutedIn || sub.ReplacedID != "s2" || sub.Points != 7 {
		t.Fatalf("expected b1 to cover s2 for 7 points, got %+v", sub)
	}
	// Captain 2 doubled, 11 other starters at 2, sub at 7.
	if want := 4 + 11*2 + 7; score.Total != want {
		t.Fatalf("expected total %d, got %d", want, score.Total)
	}
}

func TestScoreGameweekSubstituteRequiresExactPosition(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	// Starter stand off s6 missed the round. Bench holds a scrum half (b4)
	// but no stand off, so the slot goes uncovered even though both fill the
	// half back quota at selection time.
	rec := records["s6"]
	rec.Played = false
	records["s6"] = rec

	score := ScoreGameweek(squad, "gw-1", pool, records)

	for _, r := range score.Results {
		if r.SubstitutedIn {
			t.Fatalf("expected no substitution, got %+v", r)
		}
	}
	if want := 4 + 11*2; score.Total != want {
		t.Fatalf("expected total %d, got %d", want, score.Total)
	}
}

func TestScoreGameweekBenchPlayerCoversAtMostOneSlot(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	// Both starting wingers sat out; only one bench winger exists.
	for _, id := range []string{"s2", "s3"} {
		rec := records[id]
		rec.Played = false
		records[id] = rec
	}

	score := ScoreGameweek(squad, "gw-1", pool, records)

	covered := 0
	for _, r := range score.Results {
		if r.PlayerID == "b1" {
			covered++
		}
	}
	if covered != 1 {
		t.Fatalf("expected b1 to appear exactly once, got %d", covered)
	}
	if want := 4 + 10*2 + 2; score.Total != want {
		t.Fatalf("expected total %d, got %d", want, score.Total)
	}
}

func TestScoreGameweekMissingStatRowTreatedAsAbsent(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	// No row at all for the hooker: same as played=false.
	delete(records, "s10")
	benchRec := records["b3"]
	benchRec.Points = 5
	records["b3"] = benchRec

	score := ScoreGameweek(squad, "gw-1", pool, records)

	sub := resultFor(t, score, "b3")
	if !sub.SubstitutedIn || sub.ReplacedID != "s10" {
		t.Fatalf("expected b3 to cover s10, got %+v", sub)
	}
}

func TestScoreGameweekCaptainAbsentGetsNoBonus(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	// Captain s1 is the full back and nobody on the bench shares the
	// position, so the slot scores nothing and no bonus applies anywhere.
	rec := records["s1"]
	rec.Played = false
	records["s1"] = rec

	score := ScoreGameweek(squad, "gw-1", pool, records)

	for _, r := range score.Results {
		if r.IsCaptain || r.CaptainBonus != 0 {
			t.Fatalf("expected no captain result, got %+v", r)
		}
	}
	if want := 12 * 2; score.Total != want {
		t.Fatalf("expected total %d, got %d", want, score.Total)
	}
}

func TestScoreGameweekDeterministic(t *testing.T) {
	squad, records := testSquad()
	pool, _, _ := testPool()

	first := ScoreGameweek(squad, "gw-1", pool, records)
	second := ScoreGameweek(squad, "gw-1", pool, records)
	if first.Total != second.Total || len(first.Results) != len(second.Results) {
		t.Fatalf("expected identical scores, got %d and %d", first.Total, second.Total)
	}
}
