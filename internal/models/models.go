package models

import "time"

// SeasonType is the integer season phase code carried by game feeds.
type SeasonType int

const (
	SeasonTypePre     SeasonType = 1
	SeasonTypeRegular SeasonType = 2
	SeasonTypePost    SeasonType = 3
)

// Valid reports whether the code is one of the recognized season phases.
func (s SeasonType) Valid() bool {
	switch s {
	case SeasonTypePre, SeasonTypeRegular, SeasonTypePost:
		return true
	}
	return false
}

// GameStatus represents the lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
	StatusPostponed  GameStatus = "POSTPONED"
	StatusCanceled   GameStatus = "CANCELED"
)

// Conference identifies one of the two league conferences.
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

// PlayoffRound names one elimination round.
type PlayoffRound string

const (
	RoundWildcard   PlayoffRound = "WILDCARD"
	RoundDivisional PlayoffRound = "DIVISIONAL"
	RoundConference PlayoffRound = "CONFERENCE"
	RoundSuperbowl  PlayoffRound = "SUPERBOWL"
)

// GameFact is an immutable record of one game as ingested.
// Scores stay nil until the game goes final.
type GameFact struct {
	ID         string       `json:"id"`
	SeasonYear string       `json:"seasonYear"`
	SeasonType SeasonType   `json:"seasonType"`
	Week       *int         `json:"week,omitempty"`
	HomeTeamID string       `json:"homeTeamId"`
	AwayTeamID string       `json:"awayTeamId"`
	HomeScore  *int         `json:"homeScore,omitempty"`
	AwayScore  *int         `json:"awayScore,omitempty"`
	Status     GameStatus   `json:"status"`
	Round      PlayoffRound `json:"round,omitempty"`
	PlayedAt   *time.Time   `json:"playedAt,omitempty"`
}

// Final reports whether the game counts toward standings.
func (g GameFact) Final() bool {
	return g.Status == StatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// TeamMeta is the static team identity a game feed references.
type TeamMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Abbrev     string     `json:"abbrev"`
	Conference Conference `json:"conference"`
	Division   string     `json:"division"`
}

// Record holds win/loss/tie counters for a scope (overall, division, conference).
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Games returns the number of games the record covers.
func (r Record) Games() int { return r.Wins + r.Losses + r.Ties }

// WinPct is (wins + 0.5*ties) / games, 0 when no games have been played.
func (r Record) WinPct() float64 {
	games := r.Games()
	if games == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(games)
}

// TeamStanding is one team's computed line for a (seasonYear, seasonType) scope.
// Derived fields are pure functions of the counters and never mutated directly.
type TeamStanding struct {
	Team             TeamMeta `json:"team"`
	Record           Record   `json:"record"`
	PointsFor        int      `json:"pointsFor"`
	PointsAgainst    int      `json:"pointsAgainst"`
	WinPct           float64  `json:"winPct"`
	PointDiff        int      `json:"pointDiff"`
	DivisionRecord   Record   `json:"divisionRecord"`
	ConferenceRecord Record   `json:"conferenceRecord"`
	Streak           string   `json:"streak"`
}

// SnapshotMode selects how a draft order is derived from standings.
type SnapshotMode string

const (
	ModeCurrent    SnapshotMode = "current"
	ModeProjection SnapshotMode = "projection"
)

// DraftOrderSnapshot is the immutable result of one draft-order computation.
// A recomputation produces a new snapshot; existing ones are never mutated.
type DraftOrderSnapshot struct {
	ID          string       `json:"id,omitempty"`
	SeasonYear  string       `json:"seasonYear"`
	SeasonType  SeasonType   `json:"seasonType"`
	ThroughWeek *int         `json:"throughWeek,omitempty"`
	Mode        SnapshotMode `json:"mode"`
	Strategy    string       `json:"strategy,omitempty"`
	PickOrder   []string     `json:"pickOrder"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PlayoffSeed is one team's conference rank for bracket placement.
type PlayoffSeed struct {
	TeamID     string     `json:"teamId"`
	Conference Conference `json:"conference"`
	Seed       int        `json:"seed"`
}

// PlayoffMatchup is one bracket cell. Team/seed fields stay nil until the
// matchup is determined; scores and winner stay nil until the game is played.
type PlayoffMatchup struct {
	SeasonYear   string       `json:"seasonYear"`
	Round        PlayoffRound `json:"round"`
	Conference   Conference   `json:"conference,omitempty"`
	Slot         string       `json:"slot"`
	HomeTeamID   *string      `json:"homeTeamId,omitempty"`
	AwayTeamID   *string      `json:"awayTeamId,omitempty"`
	HomeSeed     *int         `json:"homeSeed,omitempty"`
	AwaySeed     *int         `json:"awaySeed,omitempty"`
	HomeScore    *int         `json:"homeScore,omitempty"`
	AwayScore    *int         `json:"awayScore,omitempty"`
	WinnerTeamID *string      `json:"winnerTeamId,omitempty"`
	Date         *time.Time   `json:"date,omitempty"`
}

// Decided reports whether the matchup has a winner.
func (m PlayoffMatchup) Decided() bool { return m.WinnerTeamID != nil }

// ConferenceRounds groups one conference's bracket rounds in play order.
type ConferenceRounds struct {
	Conference Conference       `json:"conference"`
	Wildcard   []PlayoffMatchup `json:"wildcard"`
	Divisional []PlayoffMatchup `json:"divisional"`
	Conf       []PlayoffMatchup `json:"conferenceRound"`
}

// PlayoffBracket is the full postseason picture for one season.
type PlayoffBracket struct {
	SeasonYear string           `json:"seasonYear"`
	AFC        ConferenceRounds `json:"afc"`
	NFC        ConferenceRounds `json:"nfc"`
	Superbowl  *PlayoffMatchup  `json:"superbowl,omitempty"`
}
