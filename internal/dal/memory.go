package dal

import (
	"fmt"
	"sync"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// MemoryDAL implements LeagueDAL using in-memory storage
type MemoryDAL struct {
	mu        sync.RWMutex
	teams     []models.TeamMeta
	games     []models.GameFact
	snapshots []models.DraftOrderSnapshot
	brackets  map[string]models.PlayoffBracket // season year -> bracket
}

// NewMemoryDAL creates a new in-memory data access layer seeded with the
// league's 32 teams.
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{
		teams:    getDefaultTeams(),
		brackets: make(map[string]models.PlayoffBracket),
	}
}

func (m *MemoryDAL) ListTeams() ([]models.TeamMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams := make([]models.TeamMeta, len(m.teams))
	copy(teams, m.teams)
	return teams, nil
}

func (m *MemoryDAL) TeamsByID() (map[string]models.TeamMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byID := make(map[string]models.TeamMeta, len(m.teams))
	for _, t := range m.teams {
		byID[t.ID] = t
	}
	return byID, nil
}

func (m *MemoryDAL) AddGame(game *models.GameFact) (*models.GameFact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if game.ID == "" {
		game.ID = genID("game")
	}
	for _, g := range m.games {
		if g.ID == game.ID {
			return nil, fmt.Errorf("game %s already exists", game.ID)
		}
	}

	m.games = append(m.games, *game)
	return game, nil
}

func (m *MemoryDAL) ListFinalGames(seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.GameFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	games := []models.GameFact{}
	for _, g := range m.games {
		if g.SeasonYear != seasonYear || g.SeasonType != seasonType || !g.Final() {
			continue
		}
		if throughWeek != nil && (g.Week == nil || *g.Week > *throughWeek) {
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (m *MemoryDAL) ListPlayoffGames(seasonYear string) ([]models.GameFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	games := []models.GameFact{}
	for _, g := range m.games {
		if g.SeasonYear == seasonYear && g.SeasonType == models.SeasonTypePost {
			games = append(games, g)
		}
	}
	return games, nil
}

// CreateSnapshot stores a copy of the snapshot and assigns its identifier.
// The stored copy is never mutated afterwards.
func (m *MemoryDAL) CreateSnapshot(snapshot *models.DraftOrderSnapshot) (*models.DraftOrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *snapshot
	stored.ID = genID("snap")
	stored.PickOrder = append([]string{}, snapshot.PickOrder...)
	m.snapshots = append(m.snapshots, stored)

	result := stored
	return &result, nil
}

func (m *MemoryDAL) GetSnapshot(id string) (*models.DraftOrderSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.snapshots {
		if s.ID == id {
			found := s
			found.PickOrder = append([]string{}, s.PickOrder...)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryDAL) ListSnapshots(seasonYear string) ([]models.DraftOrderSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := []models.DraftOrderSnapshot{}
	for _, s := range m.snapshots {
		if s.SeasonYear == seasonYear {
			snapshots = append(snapshots, s)
		}
	}
	return snapshots, nil
}

func (m *MemoryDAL) SaveBracket(bracket *models.PlayoffBracket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.brackets[bracket.SeasonYear] = *bracket
	return nil
}

func (m *MemoryDAL) GetBracket(seasonYear string) (*models.PlayoffBracket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bracket, ok := m.brackets[seasonYear]
	if !ok {
		return nil, ErrNotFound
	}
	return &bracket, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams = getDefaultTeams()
	m.games = nil
	m.snapshots = nil
	m.brackets = make(map[string]models.PlayoffBracket)
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
