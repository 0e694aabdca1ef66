package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGames(rows *sql.Rows) ([]models.GameFact, error) {
	games := []models.GameFact{}
	for rows.Next() {
		var g models.GameFact
		var seasonType int
		var week, homeScore, awayScore sql.NullInt64
		var status, round string
		var playedAt sql.NullTime

		err := rows.Scan(&g.ID, &g.SeasonYear, &seasonType, &week, &g.HomeTeamID, &g.AwayTeamID,
			&homeScore, &awayScore, &status, &round, &playedAt)
		if err != nil {
			return nil, err
		}

		g.SeasonType = models.SeasonType(seasonType)
		g.Status = models.GameStatus(status)
		g.Round = models.PlayoffRound(round)
		g.Week = intFromNull(week)
		g.HomeScore = intFromNull(homeScore)
		g.AwayScore = intFromNull(awayScore)
		if playedAt.Valid {
			g.PlayedAt = &playedAt.Time
		}

		games = append(games, g)
	}
	return games, rows.Err()
}

func scanSnapshot(row rowScanner) (*models.DraftOrderSnapshot, error) {
	var s models.DraftOrderSnapshot
	var seasonType int
	var throughWeek sql.NullInt64
	var mode, pickOrderJSON string

	err := row.Scan(&s.ID, &s.SeasonYear, &seasonType, &throughWeek, &mode, &s.Strategy, &pickOrderJSON, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	s.SeasonType = models.SeasonType(seasonType)
	s.Mode = models.SnapshotMode(mode)
	s.ThroughWeek = intFromNull(throughWeek)
	if err := json.Unmarshal([]byte(pickOrderJSON), &s.PickOrder); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pick order: %w", err)
	}
	return &s, nil
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
