package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// SQLiteDAL implements LeagueDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		abbrev TEXT NOT NULL,
		conference TEXT NOT NULL,
		division TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		season_year TEXT NOT NULL,
		season_type INTEGER NOT NULL,
		week INTEGER,
		home_team_id TEXT NOT NULL,
		away_team_id TEXT NOT NULL,
		home_score INTEGER,
		away_score INTEGER,
		status TEXT NOT NULL,
		round TEXT NOT NULL DEFAULT '',
		played_at TIMESTAMP,
		FOREIGN KEY (home_team_id) REFERENCES teams(id),
		FOREIGN KEY (away_team_id) REFERENCES teams(id)
	);

	CREATE TABLE IF NOT EXISTS draft_order_snapshots (
		id TEXT PRIMARY KEY,
		season_year TEXT NOT NULL,
		season_type INTEGER NOT NULL,
		through_week INTEGER,
		mode TEXT NOT NULL,
		strategy TEXT NOT NULL DEFAULT '',
		pick_order TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS playoff_brackets (
		season_year TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_season ON games(season_year, season_type);
	CREATE INDEX IF NOT EXISTS idx_snapshots_season ON draft_order_snapshots(season_year);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed teams on first run
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := s.seedTeams(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteDAL) seedTeams() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO teams (id, name, abbrev, conference, division)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, team := range getDefaultTeams() {
		if _, err := stmt.Exec(team.ID, team.Name, team.Abbrev, string(team.Conference), team.Division); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteDAL) ListTeams() ([]models.TeamMeta, error) {
	rows, err := s.db.Query(`SELECT id, name, abbrev, conference, division FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.TeamMeta{}
	for rows.Next() {
		var t models.TeamMeta
		var conference string
		if err := rows.Scan(&t.ID, &t.Name, &t.Abbrev, &conference, &t.Division); err != nil {
			return nil, err
		}
		t.Conference = models.Conference(conference)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLiteDAL) TeamsByID() (map[string]models.TeamMeta, error) {
	teams, err := s.ListTeams()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.TeamMeta, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID, nil
}

func (s *SQLiteDAL) AddGame(game *models.GameFact) (*models.GameFact, error) {
	if game.ID == "" {
		game.ID = genID("game")
	}

	_, err := s.db.Exec(`
		INSERT INTO games (id, season_year, season_type, week, home_team_id, away_team_id, home_score, away_score, status, round, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, game.ID, game.SeasonYear, int(game.SeasonType), nullableInt(game.Week),
		game.HomeTeamID, game.AwayTeamID, nullableInt(game.HomeScore), nullableInt(game.AwayScore),
		string(game.Status), string(game.Round), nullableTime(game.PlayedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	return game, nil
}

const gameColumns = `id, season_year, season_type, week, home_team_id, away_team_id, home_score, away_score, status, round, played_at`

func (s *SQLiteDAL) ListFinalGames(seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.GameFact, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season_year = ? AND season_type = ? AND status = ?
		AND home_score IS NOT NULL AND away_score IS NOT NULL`
	args := []interface{}{seasonYear, int(seasonType), string(models.StatusFinal)}

	if throughWeek != nil {
		query += ` AND week IS NOT NULL AND week <= ?`
		args = append(args, *throughWeek)
	}
	query += ` ORDER BY week, played_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (s *SQLiteDAL) ListPlayoffGames(seasonYear string) ([]models.GameFact, error) {
	rows, err := s.db.Query(`SELECT `+gameColumns+`
		FROM games
		WHERE season_year = ? AND season_type = ?
		ORDER BY played_at, id`, seasonYear, int(models.SeasonTypePost))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (s *SQLiteDAL) CreateSnapshot(snapshot *models.DraftOrderSnapshot) (*models.DraftOrderSnapshot, error) {
	pickOrderJSON, err := json.Marshal(snapshot.PickOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pick order: %w", err)
	}

	stored := *snapshot
	stored.ID = genID("snap")

	_, err = s.db.Exec(`
		INSERT INTO draft_order_snapshots (id, season_year, season_type, through_week, mode, strategy, pick_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.SeasonYear, int(stored.SeasonType), nullableInt(stored.ThroughWeek),
		string(stored.Mode), stored.Strategy, string(pickOrderJSON), stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return &stored, nil
}

func (s *SQLiteDAL) GetSnapshot(id string) (*models.DraftOrderSnapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, season_year, season_type, through_week, mode, strategy, pick_order, created_at
		FROM draft_order_snapshots WHERE id = ?`, id)

	snapshot, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return snapshot, err
}

func (s *SQLiteDAL) ListSnapshots(seasonYear string) ([]models.DraftOrderSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, season_year, season_type, through_week, mode, strategy, pick_order, created_at
		FROM draft_order_snapshots WHERE season_year = ?
		ORDER BY created_at`, seasonYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.DraftOrderSnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, rows.Err()
}

func (s *SQLiteDAL) SaveBracket(bracket *models.PlayoffBracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO playoff_brackets (season_year, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(season_year) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, bracket.SeasonYear, string(data), time.Now())

	return err
}

func (s *SQLiteDAL) GetBracket(seasonYear string) (*models.PlayoffBracket, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM playoff_brackets WHERE season_year = ?`, seasonYear).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var bracket models.PlayoffBracket
	if err := json.Unmarshal([]byte(data), &bracket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bracket: %w", err)
	}
	return &bracket, nil
}

func (s *SQLiteDAL) Reset() error {
	_, err := s.db.Exec(`
		DELETE FROM games;
		DELETE FROM draft_order_snapshots;
		DELETE FROM playoff_brackets;
		DELETE FROM teams;
	`)
	if err != nil {
		return err
	}
	return s.seedTeams()
}

func (s *SQLiteDAL) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
