package engine

import (
	"fmt"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// WinnerPolicy decides undecided matchups when building a projected bracket.
// Implementations receive a matchup whose teams and seeds are already set and
// return the team ID expected to advance.
type WinnerPolicy interface {
	Name() string
	Winner(m models.PlayoffMatchup) string
}

// ChalkPolicy advances the better (lower) seed. It is the shipped projection
// policy; alternatives plug in through WinnerPolicy.
type ChalkPolicy struct{}

func (ChalkPolicy) Name() string { return "chalk" }

func (ChalkPolicy) Winner(m models.PlayoffMatchup) string {
	if m.HomeSeed != nil && m.AwaySeed != nil && *m.AwaySeed < *m.HomeSeed {
		return *m.AwayTeamID
	}
	return *m.HomeTeamID
}

// BuildBracket constructs the postseason bracket for a season from conference
// seeds and the playoff games played so far. Rounds whose participants are
// not yet known stay structurally present with nil team and score fields.
func BuildBracket(seasonYear string, seeds map[models.Conference][]models.PlayoffSeed, playoffGames []models.GameFact) (*models.PlayoffBracket, error) {
	return buildBracket(seasonYear, seeds, playoffGames, nil)
}

// BuildProjectedBracket builds the bracket and then advances every undecided
// matchup using the given policy, so future rounds are fully populated with
// hypothetical participants. Actual results always take precedence.
func BuildProjectedBracket(seasonYear string, seeds map[models.Conference][]models.PlayoffSeed, playoffGames []models.GameFact, policy WinnerPolicy) (*models.PlayoffBracket, error) {
	if policy == nil {
		policy = ChalkPolicy{}
	}
	return buildBracket(seasonYear, seeds, playoffGames, policy)
}

type seededTeam struct {
	id   string
	seed int
}

type bracketBuilder struct {
	year    string
	games   []models.GameFact
	project WinnerPolicy
}

func buildBracket(year string, seeds map[models.Conference][]models.PlayoffSeed, games []models.GameFact, policy WinnerPolicy) (*models.PlayoffBracket, error) {
	b := &bracketBuilder{year: year, games: games, project: policy}

	afc, afcChamp, err := b.buildConference(models.ConferenceAFC, seeds[models.ConferenceAFC])
	if err != nil {
		return nil, err
	}
	nfc, nfcChamp, err := b.buildConference(models.ConferenceNFC, seeds[models.ConferenceNFC])
	if err != nil {
		return nil, err
	}

	sb := b.newMatchup(models.RoundSuperbowl, "", "SB", afcChamp, nfcChamp)
	if err := b.resolve(&sb); err != nil {
		return nil, err
	}
	if err := b.checkUnmatched(models.RoundSuperbowl, "", []models.PlayoffMatchup{sb}); err != nil {
		return nil, err
	}

	return &models.PlayoffBracket{
		SeasonYear: year,
		AFC:        afc,
		NFC:        nfc,
		Superbowl:  &sb,
	}, nil
}

func (b *bracketBuilder) buildConference(conf models.Conference, confSeeds []models.PlayoffSeed) (models.ConferenceRounds, *seededTeam, error) {
	rounds := models.ConferenceRounds{Conference: conf}

	bySeed := make(map[int]string, len(confSeeds))
	for _, s := range confSeeds {
		if s.Seed < 1 || s.Seed > SeedsPerConference {
			return rounds, nil, fmt.Errorf("%w: conference %s seed %d out of range", ErrDataIntegrity, conf, s.Seed)
		}
		if _, dup := bySeed[s.Seed]; dup {
			return rounds, nil, fmt.Errorf("%w: conference %s has duplicate seed %d", ErrDataIntegrity, conf, s.Seed)
		}
		bySeed[s.Seed] = s.TeamID
	}
	for seed := 1; seed <= SeedsPerConference; seed++ {
		if _, ok := bySeed[seed]; !ok {
			return rounds, nil, fmt.Errorf("%w: conference %s missing seed %d", ErrDataIntegrity, conf, seed)
		}
	}
	at := func(seed int) *seededTeam {
		return &seededTeam{id: bySeed[seed], seed: seed}
	}

	// Wildcard round: seed 1 has the bye, better seed hosts.
	pairs := [][2]int{{2, 7}, {3, 6}, {4, 5}}
	for _, p := range pairs {
		m := b.newMatchup(models.RoundWildcard, conf, fmt.Sprintf("%dv%d", p[0], p[1]), at(p[0]), at(p[1]))
		if err := b.resolve(&m); err != nil {
			return rounds, nil, err
		}
		rounds.Wildcard = append(rounds.Wildcard, m)
	}
	if err := b.checkUnmatched(models.RoundWildcard, conf, rounds.Wildcard); err != nil {
		return rounds, nil, err
	}

	// Divisional round: seed 1 meets the worst surviving seed once every
	// wildcard result is in; until then both cells stay empty.
	var div1Home, div1Away, div2Home, div2Away *seededTeam
	if winners := b.winners(rounds.Wildcard); winners != nil {
		worst := winners[len(winners)-1]
		div1Home, div1Away = at(1), worst
		div2Home, div2Away = winners[0], winners[1]
	}
	div1 := b.newMatchup(models.RoundDivisional, conf, "DIV1", div1Home, div1Away)
	div2 := b.newMatchup(models.RoundDivisional, conf, "DIV2", div2Home, div2Away)
	for _, m := range []*models.PlayoffMatchup{&div1, &div2} {
		if err := b.resolve(m); err != nil {
			return rounds, nil, err
		}
	}
	rounds.Divisional = []models.PlayoffMatchup{div1, div2}
	if err := b.checkUnmatched(models.RoundDivisional, conf, rounds.Divisional); err != nil {
		return rounds, nil, err
	}

	// Conference championship: the two divisional winners, better seed hosts.
	var confHome, confAway *seededTeam
	if winners := b.winners(rounds.Divisional); winners != nil {
		confHome, confAway = winners[0], winners[1]
	}
	confGame := b.newMatchup(models.RoundConference, conf, "CONF", confHome, confAway)
	if err := b.resolve(&confGame); err != nil {
		return rounds, nil, err
	}
	rounds.Conf = []models.PlayoffMatchup{confGame}
	if err := b.checkUnmatched(models.RoundConference, conf, rounds.Conf); err != nil {
		return rounds, nil, err
	}

	champ := b.winnerOf(confGame)
	return rounds, champ, nil
}

// newMatchup builds a cell with whatever is known. Either side may be nil.
func (b *bracketBuilder) newMatchup(round models.PlayoffRound, conf models.Conference, slot string, home, away *seededTeam) models.PlayoffMatchup {
	m := models.PlayoffMatchup{
		SeasonYear: b.year,
		Round:      round,
		Conference: conf,
		Slot:       slot,
	}
	if home != nil {
		id, seed := home.id, home.seed
		m.HomeTeamID, m.HomeSeed = &id, &seed
	}
	if away != nil {
		id, seed := away.id, away.seed
		m.AwayTeamID, m.AwaySeed = &id, &seed
	}
	return m
}

// resolve threads an actual result into the matchup when one exists, or a
// projected winner when the builder runs in projected mode. Matchups without
// both teams assigned are left untouched.
func (b *bracketBuilder) resolve(m *models.PlayoffMatchup) error {
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return nil
	}

	for _, g := range b.games {
		if g.Round != m.Round || !g.Final() {
			continue
		}
		if !sameTeams(g, *m) {
			continue
		}
		hs, as := alignScores(g, *m)
		if hs == as {
			return fmt.Errorf("%w: playoff game %s ended tied", ErrDataIntegrity, g.ID)
		}
		m.HomeScore, m.AwayScore = &hs, &as
		m.Date = g.PlayedAt
		winner := *m.HomeTeamID
		if as > hs {
			winner = *m.AwayTeamID
		}
		m.WinnerTeamID = &winner
		return nil
	}

	if b.project != nil {
		winner := b.project.Winner(*m)
		if winner != *m.HomeTeamID && winner != *m.AwayTeamID {
			return fmt.Errorf("%w: projected winner %s is not in matchup %s", ErrDataIntegrity, winner, m.Slot)
		}
		m.WinnerTeamID = &winner
	}
	return nil
}

// checkUnmatched surfaces final playoff games that claim a round but fit none
// of its cells. The check only fires once every cell in the round has both
// teams assigned; before that the data is merely ahead of the bracket.
func (b *bracketBuilder) checkUnmatched(round models.PlayoffRound, conf models.Conference, matchups []models.PlayoffMatchup) error {
	teamsKnown := make(map[string]bool)
	for _, m := range matchups {
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			return nil
		}
		teamsKnown[*m.HomeTeamID] = true
		teamsKnown[*m.AwayTeamID] = true
	}

	for _, g := range b.games {
		if g.Round != round || !g.Final() {
			continue
		}
		if conf != "" && !teamsKnown[g.HomeTeamID] && !teamsKnown[g.AwayTeamID] {
			// belongs to the other conference
			continue
		}
		matched := false
		for _, m := range matchups {
			if sameTeams(g, m) {
				matched = true
				break
			}
		}
		if !matched {
			where := string(round)
			if conf != "" {
				where = fmt.Sprintf("%s %s", conf, round)
			}
			return fmt.Errorf("%w: game %s (%s at %s) does not match any %s bracket slot",
				ErrDataIntegrity, g.ID, g.AwayTeamID, g.HomeTeamID, where)
		}
	}
	return nil
}

// winners returns the round's winners ordered best seed first, or nil while
// any matchup in the round is undecided.
func (b *bracketBuilder) winners(matchups []models.PlayoffMatchup) []*seededTeam {
	out := make([]*seededTeam, 0, len(matchups))
	for _, m := range matchups {
		w := b.winnerOf(m)
		if w == nil {
			return nil
		}
		out = append(out, w)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].seed < out[j-1].seed; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (b *bracketBuilder) winnerOf(m models.PlayoffMatchup) *seededTeam {
	if m.WinnerTeamID == nil {
		return nil
	}
	seed := 0
	switch {
	case m.HomeTeamID != nil && *m.WinnerTeamID == *m.HomeTeamID && m.HomeSeed != nil:
		seed = *m.HomeSeed
	case m.AwayTeamID != nil && *m.WinnerTeamID == *m.AwayTeamID && m.AwaySeed != nil:
		seed = *m.AwaySeed
	}
	return &seededTeam{id: *m.WinnerTeamID, seed: seed}
}

func sameTeams(g models.GameFact, m models.PlayoffMatchup) bool {
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return false
	}
	return (g.HomeTeamID == *m.HomeTeamID && g.AwayTeamID == *m.AwayTeamID) ||
		(g.HomeTeamID == *m.AwayTeamID && g.AwayTeamID == *m.HomeTeamID)
}

// alignScores maps the game's home/away scores onto the matchup's
// orientation, which may be flipped relative to the scheduled game.
func alignScores(g models.GameFact, m models.PlayoffMatchup) (home, away int) {
	if g.HomeTeamID == *m.HomeTeamID {
		return *g.HomeScore, *g.AwayScore
	}
	return *g.AwayScore, *g.HomeScore
}
