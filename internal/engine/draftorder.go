package engine

import (
	"fmt"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// BaselineStrategyName is the only projection strategy shipped with the
// engine. Additional strategies register through RegisterStrategy.
const BaselineStrategyName = "baseline"

// ProjectionStrategy maps computed standings to a draft pick order. Every
// strategy receives the same standings the current mode sees; what it does
// with them is the extension point.
type ProjectionStrategy interface {
	Name() string
	PickOrder(standings []models.TeamStanding) []string
}

// baselineStrategy reverses the standings ordering: worst record picks first,
// identical to the current mode.
type baselineStrategy struct{}

func (baselineStrategy) Name() string { return BaselineStrategyName }

func (baselineStrategy) PickOrder(standings []models.TeamStanding) []string {
	return reversedOrder(standings)
}

// SnapshotRequest carries the parameters of one draft-order computation.
type SnapshotRequest struct {
	SeasonYear  string
	SeasonType  models.SeasonType
	ThroughWeek *int
	Mode        models.SnapshotMode
	Strategy    string
}

// SnapshotService computes immutable draft-order snapshots. It owns the
// strategy registry; persistence of the produced snapshots belongs to the
// caller.
type SnapshotService struct {
	strategies map[string]ProjectionStrategy
	now        func() time.Time
}

// NewSnapshotService returns a service with the baseline strategy registered.
func NewSnapshotService() *SnapshotService {
	s := &SnapshotService{
		strategies: make(map[string]ProjectionStrategy),
		now:        time.Now,
	}
	s.RegisterStrategy(baselineStrategy{})
	return s
}

// RegisterStrategy makes a projection strategy available by name.
func (s *SnapshotService) RegisterStrategy(strategy ProjectionStrategy) {
	s.strategies[strategy.Name()] = strategy
}

// Validate rejects malformed requests before any computation. An empty
// strategy on a projection request defaults to baseline; an unknown one is an
// error, never silently substituted.
func (s *SnapshotService) Validate(req *SnapshotRequest) error {
	if req.SeasonYear == "" {
		return fmt.Errorf("%w: seasonYear is required", ErrValidation)
	}
	if !req.SeasonType.Valid() {
		return fmt.Errorf("%w: unrecognized seasonType code %d", ErrValidation, req.SeasonType)
	}
	switch req.Mode {
	case models.ModeCurrent:
		req.Strategy = ""
	case models.ModeProjection:
		if req.Strategy == "" {
			req.Strategy = BaselineStrategyName
		}
		if _, ok := s.strategies[req.Strategy]; !ok {
			return fmt.Errorf("%w: unknown projection strategy %q", ErrValidation, req.Strategy)
		}
	default:
		return fmt.Errorf("%w: unrecognized mode %q", ErrValidation, req.Mode)
	}
	return nil
}

// Compute derives a draft-order snapshot from the supplied game facts. Games
// beyond ThroughWeek (when set) never influence the result. The returned
// snapshot is fully populated and never mutated afterwards; its ID is
// assigned by whichever store persists it.
func (s *SnapshotService) Compute(req SnapshotRequest, games []models.GameFact, teams map[string]models.TeamMeta) (*models.DraftOrderSnapshot, error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}

	standings, err := ComputeStandings(boundGames(games, req.ThroughWeek), teams)
	if err != nil {
		return nil, err
	}

	var order []string
	switch req.Mode {
	case models.ModeCurrent:
		order = reversedOrder(standings)
	case models.ModeProjection:
		order = s.strategies[req.Strategy].PickOrder(standings)
	}

	return &models.DraftOrderSnapshot{
		SeasonYear:  req.SeasonYear,
		SeasonType:  req.SeasonType,
		ThroughWeek: req.ThroughWeek,
		Mode:        req.Mode,
		Strategy:    req.Strategy,
		PickOrder:   order,
		CreatedAt:   s.now(),
	}, nil
}

// boundGames restricts games to week <= throughWeek. Games without a week
// cannot satisfy the bound and are excluded.
func boundGames(games []models.GameFact, throughWeek *int) []models.GameFact {
	if throughWeek == nil {
		return games
	}
	bounded := make([]models.GameFact, 0, len(games))
	for _, g := range games {
		if g.Week != nil && *g.Week <= *throughWeek {
			bounded = append(bounded, g)
		}
	}
	return bounded
}

// reversedOrder turns a best-to-worst standings list into a worst-to-first
// pick order.
func reversedOrder(standings []models.TeamStanding) []string {
	order := make([]string, len(standings))
	for i, s := range standings {
		order[len(standings)-1-i] = s.Team.ID
	}
	return order
}
