package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// getDefaultTeams returns the 32-team league layout: two conferences, four
// divisions each. Stores seed this on first run so standings can be computed
// before any games arrive.
func getDefaultTeams() []models.TeamMeta {
	type entry struct {
		id, name, abbrev string
	}
	layout := []struct {
		conference models.Conference
		division   string
		teams      []entry
	}{
		{models.ConferenceAFC, "East", []entry{
			{"buf", "Buffalo Bills", "BUF"},
			{"mia", "Miami Dolphins", "MIA"},
			{"ne", "New England Patriots", "NE"},
			{"nyj", "New York Jets", "NYJ"},
		}},
		{models.ConferenceAFC, "North", []entry{
			{"bal", "Baltimore Ravens", "BAL"},
			{"cin", "Cincinnati Bengals", "CIN"},
			{"cle", "Cleveland Browns", "CLE"},
			{"pit", "Pittsburgh Steelers", "PIT"},
		}},
		{models.ConferenceAFC, "South", []entry{
			{"hou", "Houston Texans", "HOU"},
			{"ind", "Indianapolis Colts", "IND"},
			{"jax", "Jacksonville Jaguars", "JAX"},
			{"ten", "Tennessee Titans", "TEN"},
		}},
		{models.ConferenceAFC, "West", []entry{
			{"den", "Denver Broncos", "DEN"},
			{"kc", "Kansas City Chiefs", "KC"},
			{"lv", "Las Vegas Raiders", "LV"},
			{"lac", "Los Angeles Chargers", "LAC"},
		}},
		{models.ConferenceNFC, "East", []entry{
			{"dal", "Dallas Cowboys", "DAL"},
			{"nyg", "New York Giants", "NYG"},
			{"phi", "Philadelphia Eagles", "PHI"},
			{"was", "Washington Commanders", "WAS"},
		}},
		{models.ConferenceNFC, "North", []entry{
			{"chi", "Chicago Bears", "CHI"},
			{"det", "Detroit Lions", "DET"},
			{"gb", "Green Bay Packers", "GB"},
			{"min", "Minnesota Vikings", "MIN"},
		}},
		{models.ConferenceNFC, "South", []entry{
			{"atl", "Atlanta Falcons", "ATL"},
			{"car", "Carolina Panthers", "CAR"},
			{"no", "New Orleans Saints", "NO"},
			{"tb", "Tampa Bay Buccaneers", "TB"},
		}},
		{models.ConferenceNFC, "West", []entry{
			{"ari", "Arizona Cardinals", "ARI"},
			{"lar", "Los Angeles Rams", "LAR"},
			{"sf", "San Francisco 49ers", "SF"},
			{"sea", "Seattle Seahawks", "SEA"},
		}},
	}

	teams := make([]models.TeamMeta, 0, 32)
	for _, group := range layout {
		for _, e := range group.teams {
			teams = append(teams, models.TeamMeta{
				ID:         e.id,
				Name:       e.name,
				Abbrev:     e.abbrev,
				Conference: group.conference,
				Division:   group.division,
			})
		}
	}
	return teams
}
