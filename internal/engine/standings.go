package engine

import (
	"fmt"
	"sort"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// accumulator collects one team's counters during a single standings pass.
// Accumulators live only for the duration of one ComputeStandings call.
type accumulator struct {
	team          models.TeamMeta
	record        models.Record
	pointsFor     int
	pointsAgainst int
	division      models.Record
	conference    models.Record
	headToHead    map[string]models.Record // opponent ID -> record vs that opponent
	results       []byte                   // 'W'/'L'/'T' in chronological order, for the streak
}

func newAccumulator(team models.TeamMeta) *accumulator {
	return &accumulator{
		team:       team,
		headToHead: make(map[string]models.Record),
	}
}

// credit applies one final game from this team's perspective.
func (a *accumulator) credit(opponent models.TeamMeta, scored, allowed int) {
	a.pointsFor += scored
	a.pointsAgainst += allowed

	var outcome byte
	switch {
	case scored > allowed:
		outcome = 'W'
	case scored < allowed:
		outcome = 'L'
	default:
		outcome = 'T'
	}
	a.results = append(a.results, outcome)

	bump := func(r *models.Record) {
		switch outcome {
		case 'W':
			r.Wins++
		case 'L':
			r.Losses++
		default:
			r.Ties++
		}
	}

	bump(&a.record)
	h2h := a.headToHead[opponent.ID]
	bump(&h2h)
	a.headToHead[opponent.ID] = h2h

	if opponent.Conference == a.team.Conference {
		bump(&a.conference)
		if opponent.Division == a.team.Division {
			bump(&a.division)
		}
	}
}

// streak renders the trailing run of identical outcomes, e.g. "W3" or "L1".
// Teams with no games yet report "-".
func (a *accumulator) streak() string {
	n := len(a.results)
	if n == 0 {
		return "-"
	}
	last := a.results[n-1]
	count := 0
	for i := n - 1; i >= 0 && a.results[i] == last; i-- {
		count++
	}
	return fmt.Sprintf("%c%d", last, count)
}

func (a *accumulator) standing() models.TeamStanding {
	return models.TeamStanding{
		Team:             a.team,
		Record:           a.record,
		PointsFor:        a.pointsFor,
		PointsAgainst:    a.pointsAgainst,
		WinPct:           a.record.WinPct(),
		PointDiff:        a.pointsFor - a.pointsAgainst,
		DivisionRecord:   a.division,
		ConferenceRecord: a.conference,
		Streak:           a.streak(),
	}
}

// ComputeStandings folds final game facts into one ordered standing per known
// team. The result is ordered best-to-worst under the tiebreak chain. Games
// that are not final are ignored; a final game referencing a team absent from
// teams fails the whole computation. An empty game set yields all-zero
// standings in deterministic team-ID order.
func ComputeStandings(games []models.GameFact, teams map[string]models.TeamMeta) ([]models.TeamStanding, error) {
	accs := make(map[string]*accumulator, len(teams))
	for id, team := range teams {
		accs[id] = newAccumulator(team)
	}

	ordered := make([]models.GameFact, len(games))
	copy(ordered, games)
	sortChronological(ordered)

	for _, g := range ordered {
		if !g.Final() {
			continue
		}
		home, ok := accs[g.HomeTeamID]
		if !ok {
			return nil, fmt.Errorf("%w: game %s references unknown team %s", ErrDataIntegrity, g.ID, g.HomeTeamID)
		}
		away, ok := accs[g.AwayTeamID]
		if !ok {
			return nil, fmt.Errorf("%w: game %s references unknown team %s", ErrDataIntegrity, g.ID, g.AwayTeamID)
		}

		home.credit(away.team, *g.HomeScore, *g.AwayScore)
		away.credit(home.team, *g.AwayScore, *g.HomeScore)
	}

	ranked := make([]*accumulator, 0, len(accs))
	for _, acc := range accs {
		ranked = append(ranked, acc)
	}
	rank(ranked)

	standings := make([]models.TeamStanding, len(ranked))
	for i, acc := range ranked {
		standings[i] = acc.standing()
	}
	return standings, nil
}

// sortChronological orders games by week then kickoff so streaks come out in
// play order. Games without a week sort last.
func sortChronological(games []models.GameFact) {
	sort.SliceStable(games, func(i, j int) bool {
		wi, wj := weekValue(games[i]), weekValue(games[j])
		if wi != wj {
			return wi < wj
		}
		ti, tj := games[i].PlayedAt, games[j].PlayedAt
		if ti != nil && tj != nil && !ti.Equal(*tj) {
			return ti.Before(*tj)
		}
		return games[i].ID < games[j].ID
	})
}

func weekValue(g models.GameFact) int {
	if g.Week == nil {
		return int(^uint(0) >> 1)
	}
	return *g.Week
}
