package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type statsTableModel struct {
	PlayerID   string `db:"player_public_id"`
	GameweekID string `db:"gameweek_public_id"`
	Played     bool   `db:"played"`

	Metres         int `db:"metres"`
	Carries        int `db:"carries"`
	Tackles        int `db:"tackles"`
	MarkerTackles  int `db:"marker_tackles"`
	Offloads       int `db:"offloads"`
	RunsFromDH     int `db:"runs_from_dh"`
	AttackingKicks int `db:"attacking_kicks"`
	Tries          int `db:"tries"`
	TryAssists     int `db:"try_assists"`
	Goals          int `db:"goals"`
	DropGoals      int `db:"drop_goals"`
	TackleBusts    int `db:"tackle_busts"`
	CleanBreaks    int `db:"clean_breaks"`
	FortyTwenty    int `db:"forty_twenty"`
	Errors         int `db:"errors"`
	Penalties      int `db:"penalties"`
	YellowCards    int `db:"yellow_cards"`
	RedCards       int `db:"red_cards"`

	Points int `db:"points"`
}

func toStatsTableModel(record stats.GameweekStats) statsTableModel {
	return statsTableModel{
		PlayerID:       record.PlayerID,
		GameweekID:     record.GameweekID,
		Played:         record.Played,
		Metres:         record.Metres,
		Carries:        record.Carries,
		Tackles:        record.Tackles,
		MarkerTackles:  record.MarkerTackles,
		Offloads:       record.Offloads,
		RunsFromDH:     record.RunsFromDH,
		AttackingKicks: record.AttackingKicks,
		Tries:          record.Tries,
		TryAssists:     record.TryAssists,
		Goals:          record.Goals,
		DropGoals:      record.DropGoals,
		TackleBusts:    record.TackleBusts,
		CleanBreaks:    record.CleanBreaks,
		FortyTwenty:    record.FortyTwenty,
		Errors:         record.Errors,
		Penalties:      record.Penalties,
		YellowCards:    record.YellowCards,
		RedCards:       record.RedCards,
		Points:         record.Points,
	}
}

func (m statsTableModel) toDomain() stats.GameweekStats {
	return stats.GameweekStats{
		PlayerID:       m.PlayerID,
		GameweekID:     m.GameweekID,
		Played:         m.Played,
		Metres:         m.Metres,
		Carries:        m.Carries,
		Tackles:        m.Tackles,
		MarkerTackles:  m.MarkerTackles,
		Offloads:       m.Offloads,
		RunsFromDH:     m.RunsFromDH,
		AttackingKicks: m.AttackingKicks,
		Tries:          m.Tries,
		TryAssists:     m.TryAssists,
		Goals:          m.Goals,
		DropGoals:      m.DropGoals,
		TackleBusts:    m.TackleBusts,
		CleanBreaks:    m.CleanBreaks,
		FortyTwenty:    m.FortyTwenty,
		Errors:         m.Errors,
		Penalties:      m.Penalties,
		YellowCards:    m.YellowCards,
		RedCards:       m.RedCards,
		Points:         m.Points,
	}
}

const statsSelectColumns = `
player_public_id, gameweek_public_id, played,
metres, carries, tackles, marker_tackles, offloads, runs_from_dh, attacking_kicks,
tries, try_assists, goals, drop_goals, tackle_busts, clean_breaks, forty_twenty,
errors, penalties, yellow_cards, red_cards, points`

func (r *StatsRepository) Upsert(ctx context.Context, record stats.GameweekStats) error {
	const query = `
INSERT INTO gameweek_stats (
	player_public_id, gameweek_public_id, played,
	metres, carries, tackles, marker_tackles, offloads, runs_from_dh, attacking_kicks,
	tries, try_assists, goals, drop_goals, tackle_busts, clean_breaks, forty_twenty,
	errors, penalties, yellow_cards, red_cards, points
) VALUES (
	:player_public_id, :gameweek_public_id, :played,
	:metres, :carries, :tackles, :marker_tackles, :offloads, :runs_from_dh, :attacking_kicks,
	:tries, :try_assists, :goals, :drop_goals, :tackle_busts, :clean_breaks, :forty_twenty,
	:errors, :penalties, :yellow_cards, :red_cards, :points
)
ON CONFLICT (player_public_id, gameweek_public_id) DO UPDATE SET
	played = EXCLUDED.played,
	metres = EXCLUDED.metres,
	carries = EXCLUDED.carries,
	tackles = EXCLUDED.tackles,
	marker_tackles = EXCLUDED.marker_tackles,
	offloads = EXCLUDED.offloads,
	runs_from_dh = EXCLUDED.runs_from_dh,
	attacking_kicks = EXCLUDED.attacking_kicks,
	tries = EXCLUDED.tries,
	try_assists = EXCLUDED.try_assists,
	goals = EXCLUDED.goals,
	drop_goals = EXCLUDED.drop_goals,
	tackle_busts = EXCLUDED.tackle_busts,
	clean_breaks = EXCLUDED.clean_breaks,
	forty_twenty = EXCLUDED.forty_twenty,
	errors = EXCLUDED.errors,
	penalties = EXCLUDED.penalties,
	yellow_cards = EXCLUDED.yellow_cards,
	red_cards = EXCLUDED.red_cards,
	points = EXCLUDED.points,
	updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, toStatsTableModel(record)); err != nil {
		return fmt.Errorf("upsert gameweek stats: %w", err)
	}

	return nil
}

func (r *StatsRepository) GetByPlayerAndGameweek(ctx context.Context, playerID, gameweekID string) (stats.GameweekStats, bool, error) {
	query := "SELECT " + statsSelectColumns + `
FROM gameweek_stats
WHERE player_public_id = $1 AND gameweek_public_id = $2`

	var row statsTableModel
	if err := r.db.GetContext(ctx, &row, query, playerID, gameweekID); err != nil {
		if isNotFound(err) {
			return stats.GameweekStats{}, false, nil
		}
		return stats.GameweekStats{}, false, fmt.Errorf("get gameweek stats: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *StatsRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]stats.GameweekStats, error) {
	query := "SELECT " + statsSelectColumns + `
FROM gameweek_stats
WHERE gameweek_public_id = $1
ORDER BY player_public_id`

	var rows []statsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameweekID); err != nil {
		return nil, fmt.Errorf("select gameweek stats: %w", err)
	}

	out := make([]stats.GameweekStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StatsRepository) SumPointsByPlayer(ctx context.Context, playerID string) (int, error) {
	const query = `
SELECT COALESCE(SUM(points), 0)
FROM gameweek_stats
WHERE player_public_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, query, playerID); err != nil {
		return 0, fmt.Errorf("sum player points: %w", err)
	}

	return total, nil
}

// ScoringRuleRepository stores the admin-tunable scoring table.
type ScoringRuleRepository struct {
	db *sqlx.DB
}

func NewScoringRuleRepository(db *sqlx.DB) *ScoringRuleRepository {
	return &ScoringRuleRepository{db: db}
}

type scoringRuleTableModel struct {
	StatName    string  `db:"stat_name"`
	PointsValue float64 `db:"points_value"`
}

func (r *ScoringRuleRepository) ListRules(ctx context.Context) ([]stats.ScoringRule, error) {
	const query = `SELECT stat_name, points_value FROM scoring_rules`

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select scoring rules: %w", err)
	}

	byName := make(map[string]float64, len(rows))
	for _, row := range rows {
		byName[row.StatName] = row.PointsValue
	}

	// Display order follows the canonical stat list, not insertion order.
	out := make([]stats.ScoringRule, 0, len(rows))
	for _, name := range stats.AllStatNames {
		if value, ok := byName[name]; ok {
			out = append(out, stats.ScoringRule{StatName: name, PointsValue: value})
		}
	}

	return out, nil
}

func (r *ScoringRuleRepository) UpdateRules(ctx context.Context, rules []stats.ScoringRule) error {
	const query = `
INSERT INTO scoring_rules (stat_name, points_value)
VALUES ($1, $2)
ON CONFLICT (stat_name) DO UPDATE SET
	points_value = EXCLUDED.points_value,
	updated_at = NOW()`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for update scoring rules: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, rule := range rules {
		if _, err := tx.ExecContext(ctx, query, rule.StatName, rule.PointsValue); err != nil {
			return fmt.Errorf("upsert scoring rule %s: %w", rule.StatName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update scoring rules: %w", err)
	}

	return nil
}
