package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// Client writes standings history and snapshot audit rows to ClickHouse.
// Analytics is best-effort: the ranking pipeline works without it.
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	client := &Client{conn: conn}
	if err := client.initTables(); err != nil {
		conn.Close()
		return nil, err
	}

	return client, nil
}

func (c *Client) initTables() error {
	ctx := context.Background()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS standings_history (
			season_year String,
			season_type Int32,
			through_week Int32,
			rank Int32,
			team_id String,
			wins Int32,
			losses Int32,
			ties Int32,
			win_pct Float64,
			point_diff Int32,
			recorded_at DateTime
		) ENGINE = MergeTree()
		ORDER BY (season_year, recorded_at, rank)`,

		`CREATE TABLE IF NOT EXISTS snapshot_audit (
			snapshot_id String,
			season_year String,
			season_type Int32,
			mode String,
			strategy String,
			pick_count Int32,
			created_at DateTime
		) ENGINE = MergeTree()
		ORDER BY (season_year, created_at)`,
	}

	for _, ddl := range tables {
		if err := c.conn.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create ClickHouse table: %w", err)
		}
	}
	return nil
}

// RecordStandings appends one row per team for a computed standings set
func (c *Client) RecordStandings(ctx context.Context, seasonYear string, seasonType models.SeasonType, throughWeek *int, standings []models.TeamStanding) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO standings_history")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	week := int32(0)
	if throughWeek != nil {
		week = int32(*throughWeek)
	}
	now := time.Now()

	for i, s := range standings {
		err := batch.Append(
			seasonYear,
			int32(seasonType),
			week,
			int32(i+1),
			s.Team.ID,
			int32(s.Record.Wins),
			int32(s.Record.Losses),
			int32(s.Record.Ties),
			s.Record.WinPct(),
			int32(s.PointDiff),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to append standings row: %w", err)
		}
	}

	return batch.Send()
}

// RecordSnapshot writes an audit row for a persisted draft-order snapshot
func (c *Client) RecordSnapshot(ctx context.Context, snapshot *models.DraftOrderSnapshot) error {
	return c.conn.Exec(ctx, `
		INSERT INTO snapshot_audit (snapshot_id, season_year, season_type, mode, strategy, pick_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		snapshot.ID,
		snapshot.SeasonYear,
		int32(snapshot.SeasonType),
		string(snapshot.Mode),
		snapshot.Strategy,
		int32(len(snapshot.PickOrder)),
		snapshot.CreatedAt,
	)
}

// TeamRankHistory returns the recorded rank of a team over time for a season
func (c *Client) TeamRankHistory(ctx context.Context, seasonYear, teamID string) ([]RankSample, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT through_week, rank, win_pct, recorded_at
		FROM standings_history
		WHERE season_year = $1 AND team_id = $2
		ORDER BY recorded_at`,
		seasonYear, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []RankSample{}
	for rows.Next() {
		var s RankSample
		if err := rows.Scan(&s.ThroughWeek, &s.Rank, &s.WinPct, &s.RecordedAt); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// RankSample is one historical standings observation for a team
type RankSample struct {
	ThroughWeek int32     `json:"throughWeek"`
	Rank        int32     `json:"rank"`
	WinPct      float64   `json:"winPct"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
