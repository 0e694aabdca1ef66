package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// PostgresDAL implements LeagueDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG optimization: Configure connection pool settings
	db.SetMaxOpenConns(25)                 // Limit max connections (CloudNativePG default max_connections is 100)
	db.SetMaxIdleConns(5)                  // Keep some idle connections for quick reuse
	db.SetConnMaxLifetime(5 * time.Minute) // Recycle connections to handle failovers gracefully
	db.SetConnMaxIdleTime(1 * time.Minute) // Close idle connections to reduce load

	// Test connection with retry logic for Kubernetes DNS resolution
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
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
		home_team_id TEXT NOT NULL REFERENCES teams(id),
		away_team_id TEXT NOT NULL REFERENCES teams(id),
		home_score INTEGER,
		away_score INTEGER,
		status TEXT NOT NULL,
		round TEXT NOT NULL DEFAULT '',
		played_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS draft_order_snapshots (
		id TEXT PRIMARY KEY,
		season_year TEXT NOT NULL,
		season_type INTEGER NOT NULL,
		through_week INTEGER,
		mode TEXT NOT NULL,
		strategy TEXT NOT NULL DEFAULT '',
		pick_order JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS playoff_brackets (
		season_year TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_season ON games(season_year, season_type);
	CREATE INDEX IF NOT EXISTS idx_snapshots_season ON draft_order_snapshots(season_year);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := p.seedTeams(); err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresDAL) seedTeams() error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO teams (id, name, abbrev, conference, division)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
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

func (p *PostgresDAL) ListTeams() ([]models.TeamMeta, error) {
	rows, err := p.db.Query(`SELECT id, name, abbrev, conference, division FROM teams ORDER BY id`)
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

func (p *PostgresDAL) TeamsByID() (map[string]models.TeamMeta, error) {
	teams, err := p.ListTeams()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.TeamMeta, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID, nil
}

func (p *PostgresDAL) AddGame(game *models.GameFact) (*models.GameFact, error) {
	if game.ID == "" {
		game.ID = genID("game")
	}

	_, err := p.db.Exec(`
		INSERT INTO games (id, season_year, season_type, week, home_team_id, away_team_id, home_score, away_score, status, round, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, game.ID, game.SeasonYear, int(game.SeasonType), nullableInt(game.Week),
		game.HomeTeamID, game.AwayTeamID, nullableInt(game.HomeScore), nullableInt(game.AwayScore),
		string(game.Status), string(game.Round), nullableTime(game.PlayedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	return game, nil
}

func (p *PostgresDAL) ListFinalGames(seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.GameFact, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season_year = $1 AND season_type = $2 AND status = $3
		AND home_score IS NOT NULL AND away_score IS NOT NULL`
	args := []interface{}{seasonYear, int(seasonType), string(models.StatusFinal)}

	if throughWeek != nil {
		query += ` AND week IS NOT NULL AND week <= $4`
		args = append(args, *throughWeek)
	}
	query += ` ORDER BY week, played_at, id`

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (p *PostgresDAL) ListPlayoffGames(seasonYear string) ([]models.GameFact, error) {
	rows, err := p.db.Query(`SELECT `+gameColumns+`
		FROM games
		WHERE season_year = $1 AND season_type = $2
		ORDER BY played_at, id`, seasonYear, int(models.SeasonTypePost))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (p *PostgresDAL) CreateSnapshot(snapshot *models.DraftOrderSnapshot) (*models.DraftOrderSnapshot, error) {
	pickOrderJSON, err := json.Marshal(snapshot.PickOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pick order: %w", err)
	}

	stored := *snapshot
	stored.ID = genID("snap")

	_, err = p.db.Exec(`
		INSERT INTO draft_order_snapshots (id, season_year, season_type, through_week, mode, strategy, pick_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, stored.ID, stored.SeasonYear, int(stored.SeasonType), nullableInt(stored.ThroughWeek),
		string(stored.Mode), stored.Strategy, string(pickOrderJSON), stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return &stored, nil
}

func (p *PostgresDAL) GetSnapshot(id string) (*models.DraftOrderSnapshot, error) {
	row := p.db.QueryRow(`
		SELECT id, season_year, season_type, through_week, mode, strategy, pick_order, created_at
		FROM draft_order_snapshots WHERE id = $1`, id)

	snapshot, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return snapshot, err
}

func (p *PostgresDAL) ListSnapshots(seasonYear string) ([]models.DraftOrderSnapshot, error) {
	rows, err := p.db.Query(`
		SELECT id, season_year, season_type, through_week, mode, strategy, pick_order, created_at
		FROM draft_order_snapshots WHERE season_year = $1
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

func (p *PostgresDAL) SaveBracket(bracket *models.PlayoffBracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket: %w", err)
	}

	_, err = p.db.Exec(`
		INSERT INTO playoff_brackets (season_year, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (season_year) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, bracket.SeasonYear, string(data), time.Now())

	return err
}

func (p *PostgresDAL) GetBracket(seasonYear string) (*models.PlayoffBracket, error) {
	var data string
	err := p.db.QueryRow(`SELECT data FROM playoff_brackets WHERE season_year = $1`, seasonYear).Scan(&data)
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

func (p *PostgresDAL) Reset() error {
	_, err := p.db.Exec(`TRUNCATE games, draft_order_snapshots, playoff_brackets, teams`)
	if err != nil {
		return err
	}
	return p.seedTeams()
}

func (p *PostgresDAL) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
