package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/clickhouse"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// MockAnalytics provides an in-memory analytics sink for local development.
// Standings rows are kept so the rank-history endpoint works without a
// ClickHouse server; snapshot audit rows are just logged.
type MockAnalytics struct {
	mu      sync.Mutex
	history map[string][]clickhouse.RankSample
}

// NewMockAnalytics creates a mock analytics sink
func NewMockAnalytics() *MockAnalytics {
	logger.Info("Using MOCK analytics sink for local development")
	return &MockAnalytics{
		history: make(map[string][]clickhouse.RankSample),
	}
}

func historyKey(seasonYear, teamID string) string {
	return seasonYear + "|" + teamID
}

// RecordStandings keeps rank samples in memory instead of persisting them
func (m *MockAnalytics) RecordStandings(ctx context.Context, seasonYear string, seasonType models.SeasonType, throughWeek *int, standings []models.TeamStanding) error {
	week := int32(0)
	if throughWeek != nil {
		week = int32(*throughWeek)
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range standings {
		key := historyKey(seasonYear, s.Team.ID)
		m.history[key] = append(m.history[key], clickhouse.RankSample{
			ThroughWeek: week,
			Rank:        int32(i + 1),
			WinPct:      s.Record.WinPct(),
			RecordedAt:  now,
		})
	}

	logger.Debug("Mock analytics: standings recorded",
		"seasonYear", seasonYear, "seasonType", seasonType, "teams", len(standings))
	return nil
}

// RecordSnapshot logs the snapshot audit row instead of persisting it
func (m *MockAnalytics) RecordSnapshot(ctx context.Context, snapshot *models.DraftOrderSnapshot) error {
	logger.Debug("Mock analytics: snapshot recorded",
		"snapshotId", snapshot.ID, "mode", snapshot.Mode)
	return nil
}

// TeamRankHistory returns the samples collected for a team this session
func (m *MockAnalytics) TeamRankHistory(ctx context.Context, seasonYear, teamID string) ([]clickhouse.RankSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	samples := m.history[historyKey(seasonYear, teamID)]
	out := make([]clickhouse.RankSample, len(samples))
	copy(out, samples)
	return out, nil
}

// Close is a no-op for mock client
func (m *MockAnalytics) Close() error {
	return nil
}
