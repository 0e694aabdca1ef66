package engine

import (
	"fmt"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// testLeague builds a 16-team league: two conferences, four divisions each,
// two teams per division. Enough for every seeding and bracket scenario.
func testLeague() map[string]models.TeamMeta {
	teams := make(map[string]models.TeamMeta)
	divisions := []string{"East", "North", "South", "West"}
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		for di, div := range divisions {
			for n := 1; n <= 2; n++ {
				id := fmt.Sprintf("%s-%s-%d", conf, div, n)
				teams[id] = models.TeamMeta{
					ID:         id,
					Name:       id,
					Abbrev:     fmt.Sprintf("%c%d%d", conf[0], di, n),
					Conference: conf,
					Division:   div,
				}
			}
		}
	}
	return teams
}

var gameSeq int

func finalGame(home, away string, homeScore, awayScore, week int) models.GameFact {
	gameSeq++
	w := week
	hs, as := homeScore, awayScore
	return models.GameFact{
		ID:         fmt.Sprintf("g%d", gameSeq),
		SeasonYear: "2025",
		SeasonType: models.SeasonTypeRegular,
		Week:       &w,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  &hs,
		AwayScore:  &as,
		Status:     models.StatusFinal,
	}
}

func playoffGame(round models.PlayoffRound, home, away string, homeScore, awayScore int) models.GameFact {
	gameSeq++
	hs, as := homeScore, awayScore
	return models.GameFact{
		ID:         fmt.Sprintf("pg%d", gameSeq),
		SeasonYear: "2025",
		SeasonType: models.SeasonTypePost,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  &hs,
		AwayScore:  &as,
		Status:     models.StatusFinal,
		Round:      round,
	}
}

func intPtr(v int) *int { return &v }

// testSeeds assigns seeds 1..7 per conference over the test league in a fixed
// order: East-1, North-1, South-1, West-1 as division leaders, then East-2,
// North-2, South-2 as wildcards.
func testSeeds() map[models.Conference][]models.PlayoffSeed {
	seeds := make(map[models.Conference][]models.PlayoffSeed)
	order := []string{"East-1", "North-1", "South-1", "West-1", "East-2", "North-2", "South-2"}
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		var confSeeds []models.PlayoffSeed
		for i, suffix := range order {
			confSeeds = append(confSeeds, models.PlayoffSeed{
				TeamID:     fmt.Sprintf("%s-%s", conf, suffix),
				Conference: conf,
				Seed:       i + 1,
			})
		}
		seeds[conf] = confSeeds
	}
	return seeds
}
