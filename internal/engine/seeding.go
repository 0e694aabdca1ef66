package engine

import (
	"fmt"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// SeedsPerConference is the number of playoff berths each conference awards.
const SeedsPerConference = 7

// ComputeSeeds derives playoff seeds 1..7 per conference from an ordered
// standings list. The top seeds go to division leaders (the best team of each
// division, kept in standings order); wildcards fill the remaining berths
// from the best non-leaders conference-wide. A conference that cannot fill
// all seven berths fails the computation.
func ComputeSeeds(standings []models.TeamStanding) (map[models.Conference][]models.PlayoffSeed, error) {
	seeds := make(map[models.Conference][]models.PlayoffSeed)

	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		var leaders []models.TeamStanding
		var wildcards []models.TeamStanding
		seenDivision := make(map[string]bool)

		// standings are already in tiebreak order, so the first team seen
		// from each division is its leader
		for _, s := range standings {
			if s.Team.Conference != conf {
				continue
			}
			if !seenDivision[s.Team.Division] {
				seenDivision[s.Team.Division] = true
				leaders = append(leaders, s)
			} else {
				wildcards = append(wildcards, s)
			}
		}

		qualified := append(append([]models.TeamStanding{}, leaders...), wildcards...)
		if len(qualified) < SeedsPerConference {
			return nil, fmt.Errorf("%w: conference %s has only %d seed-eligible teams, need %d",
				ErrDataIntegrity, conf, len(qualified), SeedsPerConference)
		}

		confSeeds := make([]models.PlayoffSeed, 0, SeedsPerConference)
		for i := 0; i < SeedsPerConference; i++ {
			confSeeds = append(confSeeds, models.PlayoffSeed{
				TeamID:     qualified[i].Team.ID,
				Conference: conf,
				Seed:       i + 1,
			})
		}
		seeds[conf] = confSeeds
	}

	return seeds, nil
}
