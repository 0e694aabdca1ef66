package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// orderedStandings builds a standings list in the given team order, the way
// ComputeStandings would hand it over.
func orderedStandings(teams map[string]models.TeamMeta, ids []string) []models.TeamStanding {
	standings := make([]models.TeamStanding, 0, len(ids))
	for _, id := range ids {
		standings = append(standings, models.TeamStanding{Team: teams[id]})
	}
	return standings
}

func allTeamIDs(teams map[string]models.TeamMeta) []string {
	ids := make([]string, 0, len(teams))
	divisions := []string{"East", "North", "South", "West"}
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		for n := 1; n <= 2; n++ {
			for _, div := range divisions {
				ids = append(ids, fmt.Sprintf("%s-%s-%d", conf, div, n))
			}
		}
	}
	return ids
}

func TestComputeSeedsExactSeedSet(t *testing.T) {
	teams := testLeague()
	standings := orderedStandings(teams, allTeamIDs(teams))

	seeds, err := ComputeSeeds(standings)
	if err != nil {
		t.Fatalf("ComputeSeeds() failed: %v", err)
	}

	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		confSeeds := seeds[conf]
		if len(confSeeds) != SeedsPerConference {
			t.Fatalf("Conference %s: expected %d seeds, got %d", conf, SeedsPerConference, len(confSeeds))
		}
		seen := make(map[int]bool)
		for _, s := range confSeeds {
			if s.Seed < 1 || s.Seed > SeedsPerConference {
				t.Errorf("Conference %s: seed %d out of range", conf, s.Seed)
			}
			if seen[s.Seed] {
				t.Errorf("Conference %s: duplicate seed %d", conf, s.Seed)
			}
			seen[s.Seed] = true
		}
	}
}

func TestComputeSeedsDivisionLeadersFirst(t *testing.T) {
	teams := testLeague()

	// order AFC so East-2 outranks every division leader except East-1:
	// it must still seed behind all four leaders
	ids := []string{
		"AFC-East-1", "AFC-East-2", "AFC-North-1", "AFC-South-1", "AFC-West-1",
		"AFC-North-2", "AFC-South-2", "AFC-West-2",
	}
	ids = append(ids, allTeamIDs(teams)[8:]...) // NFC teams in default order
	standings := orderedStandings(teams, ids)

	seeds, err := ComputeSeeds(standings)
	if err != nil {
		t.Fatalf("ComputeSeeds() failed: %v", err)
	}

	afc := seeds[models.ConferenceAFC]
	expected := []string{"AFC-East-1", "AFC-North-1", "AFC-South-1", "AFC-West-1", "AFC-East-2", "AFC-North-2", "AFC-South-2"}
	for i, want := range expected {
		if afc[i].TeamID != want {
			t.Fatalf("Seed %d: expected %s, got %s", i+1, want, afc[i].TeamID)
		}
		if afc[i].Seed != i+1 {
			t.Fatalf("Seed value at position %d: expected %d, got %d", i, i+1, afc[i].Seed)
		}
	}
}

func TestComputeSeedsShortConference(t *testing.T) {
	teams := testLeague()
	// keep only 6 AFC teams
	ids := allTeamIDs(teams)
	var trimmed []string
	afcCount := 0
	for _, id := range ids {
		if teams[id].Conference == models.ConferenceAFC {
			afcCount++
			if afcCount > 6 {
				continue
			}
		}
		trimmed = append(trimmed, id)
	}
	standings := orderedStandings(teams, trimmed)

	_, err := ComputeSeeds(standings)
	if err == nil {
		t.Fatal("Expected error for short conference, got nil")
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("Expected data integrity error, got %v", err)
	}
}
