package dal

import (
	"errors"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// LeagueDAL defines the interface for the data access layer. Game facts and
// team metadata are the ranking engine's inputs; snapshots and brackets are
// the artifacts it hands back for persistence.
type LeagueDAL interface {
	ListTeams() ([]models.TeamMeta, error)
	TeamsByID() (map[string]models.TeamMeta, error)
	AddGame(game *models.GameFact) (*models.GameFact, error)
	ListFinalGames(seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.GameFact, error)
	ListPlayoffGames(seasonYear string) ([]models.GameFact, error)
	CreateSnapshot(snapshot *models.DraftOrderSnapshot) (*models.DraftOrderSnapshot, error)
	GetSnapshot(id string) (*models.DraftOrderSnapshot, error)
	ListSnapshots(seasonYear string) ([]models.DraftOrderSnapshot, error)
	SaveBracket(bracket *models.PlayoffBracket) error
	GetBracket(seasonYear string) (*models.PlayoffBracket, error)
	Reset() error
	Close() error
}
