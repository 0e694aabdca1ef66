package mocks

import (
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/dal"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
)

// MockPostgresDAL provides a mock Postgres implementation using SQLite for local development
type MockPostgresDAL struct {
	dal.LeagueDAL
}

// NewMockPostgresDAL creates a mock Postgres DAL using SQLite
func NewMockPostgresDAL(sqliteFile string) (*MockPostgresDAL, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development")

	sqliteDAL, err := dal.NewSQLiteDAL(sqliteFile)
	if err != nil {
		return nil, err
	}

	return &MockPostgresDAL{
		LeagueDAL: sqliteDAL,
	}, nil
}
