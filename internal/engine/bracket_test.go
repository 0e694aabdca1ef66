package engine

import (
	"errors"
	"testing"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

func TestBuildBracketBeforePlayoffs(t *testing.T) {
	bracket, err := BuildBracket("2025", testSeeds(), nil)
	if err != nil {
		t.Fatalf("BuildBracket() failed: %v", err)
	}

	for _, conf := range []models.ConferenceRounds{bracket.AFC, bracket.NFC} {
		if len(conf.Wildcard) != 3 || len(conf.Divisional) != 2 || len(conf.Conf) != 1 {
			t.Fatalf("Conference %s: expected 3/2/1 rounds, got %d/%d/%d",
				conf.Conference, len(conf.Wildcard), len(conf.Divisional), len(conf.Conf))
		}

		// wildcard cells carry teams and seeds, nothing else
		slots := map[string][2]int{"2v7": {2, 7}, "3v6": {3, 6}, "4v5": {4, 5}}
		for _, m := range conf.Wildcard {
			want, ok := slots[m.Slot]
			if !ok {
				t.Fatalf("Unexpected wildcard slot %q", m.Slot)
			}
			if m.HomeSeed == nil || m.AwaySeed == nil || *m.HomeSeed != want[0] || *m.AwaySeed != want[1] {
				t.Fatalf("Slot %s: wrong seeds", m.Slot)
			}
			if m.HomeTeamID == nil || m.AwayTeamID == nil {
				t.Fatalf("Slot %s: missing team assignment", m.Slot)
			}
			if m.HomeScore != nil || m.AwayScore != nil || m.WinnerTeamID != nil {
				t.Fatalf("Slot %s: result populated before any game", m.Slot)
			}
			if *m.HomeSeed == 1 || *m.AwaySeed == 1 {
				t.Fatal("Seed 1 must not appear in the wildcard round")
			}
		}

		// later rounds are structurally present but empty
		for _, m := range append(append([]models.PlayoffMatchup{}, conf.Divisional...), conf.Conf...) {
			if m.HomeTeamID != nil || m.AwayTeamID != nil || m.WinnerTeamID != nil {
				t.Fatalf("Round %s slot %s populated before wildcard results", m.Round, m.Slot)
			}
		}
	}

	if bracket.Superbowl == nil {
		t.Fatal("Superbowl cell missing")
	}
	if bracket.Superbowl.HomeTeamID != nil || bracket.Superbowl.AwayTeamID != nil {
		t.Fatal("Superbowl populated before conference championships")
	}
}

func TestBuildBracketThreadsWinners(t *testing.T) {
	seeds := testSeeds()

	// AFC wildcard: 7 upsets 2, others hold serve
	games := []models.GameFact{
		playoffGame(models.RoundWildcard, "AFC-North-1", "AFC-South-2", 17, 20), // 2v7: 7 wins
		playoffGame(models.RoundWildcard, "AFC-South-1", "AFC-North-2", 27, 24), // 3v6: 3 wins
		playoffGame(models.RoundWildcard, "AFC-West-1", "AFC-East-2", 31, 28),   // 4v5: 4 wins
	}

	bracket, err := BuildBracket("2025", seeds, games)
	if err != nil {
		t.Fatalf("BuildBracket() failed: %v", err)
	}

	div := bracket.AFC.Divisional
	// seed 1 hosts the worst surviving seed (7); 3 hosts 4
	if *div[0].HomeTeamID != "AFC-East-1" || *div[0].AwayTeamID != "AFC-South-2" {
		t.Fatalf("DIV1: expected 1 vs 7, got %s vs %s", *div[0].HomeTeamID, *div[0].AwayTeamID)
	}
	if *div[1].HomeTeamID != "AFC-South-1" || *div[1].AwayTeamID != "AFC-West-1" {
		t.Fatalf("DIV2: expected 3 vs 4, got %s vs %s", *div[1].HomeTeamID, *div[1].AwayTeamID)
	}
	if div[0].WinnerTeamID != nil {
		t.Fatal("Divisional winner set before any divisional game")
	}

	// NFC side has no games yet and must stay empty past the wildcard round
	if bracket.NFC.Divisional[0].HomeTeamID != nil {
		t.Fatal("NFC divisional populated without NFC wildcard results")
	}
}

func TestBuildBracketFullPostseason(t *testing.T) {
	seeds := testSeeds()

	var games []models.GameFact
	for _, conf := range []string{"AFC", "NFC"} {
		games = append(games,
			// chalk wildcard round
			playoffGame(models.RoundWildcard, conf+"-North-1", conf+"-South-2", 24, 10),
			playoffGame(models.RoundWildcard, conf+"-South-1", conf+"-North-2", 24, 10),
			playoffGame(models.RoundWildcard, conf+"-West-1", conf+"-East-2", 24, 10),
			// divisional: 1 beats 4, 2 beats 3
			playoffGame(models.RoundDivisional, conf+"-East-1", conf+"-West-1", 30, 13),
			playoffGame(models.RoundDivisional, conf+"-North-1", conf+"-South-1", 20, 17),
			// conference: 1 beats 2
			playoffGame(models.RoundConference, conf+"-East-1", conf+"-North-1", 28, 21),
		)
	}
	games = append(games, playoffGame(models.RoundSuperbowl, "AFC-East-1", "NFC-East-1", 31, 27))

	bracket, err := BuildBracket("2025", seeds, games)
	if err != nil {
		t.Fatalf("BuildBracket() failed: %v", err)
	}

	conf := bracket.AFC.Conf[0]
	if conf.WinnerTeamID == nil || *conf.WinnerTeamID != "AFC-East-1" {
		t.Fatal("AFC championship winner not threaded")
	}
	sb := bracket.Superbowl
	if sb.WinnerTeamID == nil || *sb.WinnerTeamID != "AFC-East-1" {
		t.Fatal("Superbowl winner not threaded")
	}
	if *sb.HomeScore != 31 || *sb.AwayScore != 27 {
		t.Fatalf("Superbowl score wrong: %d-%d", *sb.HomeScore, *sb.AwayScore)
	}
}

func TestBuildBracketNoDuplicateTeamsPerRound(t *testing.T) {
	bracket, err := BuildBracket("2025", testSeeds(), nil)
	if err != nil {
		t.Fatalf("BuildBracket() failed: %v", err)
	}

	for _, conf := range []models.ConferenceRounds{bracket.AFC, bracket.NFC} {
		seen := make(map[string]bool)
		for _, m := range conf.Wildcard {
			for _, id := range []*string{m.HomeTeamID, m.AwayTeamID} {
				if id == nil {
					continue
				}
				if seen[*id] {
					t.Fatalf("Team %s appears twice in the wildcard round", *id)
				}
				seen[*id] = true
			}
		}
	}
}

func TestBuildBracketRejectsUnmatchedGame(t *testing.T) {
	seeds := testSeeds()
	games := []models.GameFact{
		// seed 2 playing seed 6 is not a wildcard pairing
		playoffGame(models.RoundWildcard, "AFC-North-1", "AFC-North-2", 20, 10),
	}

	_, err := BuildBracket("2025", seeds, games)
	if err == nil {
		t.Fatal("Expected error for game outside the bracket structure, got nil")
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("Expected data integrity error, got %v", err)
	}
}

func TestBuildBracketRejectsUnmatchedSuperbowlGame(t *testing.T) {
	seeds := testSeeds()

	// full chalk postseason: both 1 seeds reach the superbowl
	var games []models.GameFact
	for _, conf := range []string{"AFC", "NFC"} {
		games = append(games,
			playoffGame(models.RoundWildcard, conf+"-North-1", conf+"-South-2", 24, 10),
			playoffGame(models.RoundWildcard, conf+"-South-1", conf+"-North-2", 24, 10),
			playoffGame(models.RoundWildcard, conf+"-West-1", conf+"-East-2", 24, 10),
			playoffGame(models.RoundDivisional, conf+"-East-1", conf+"-West-1", 30, 13),
			playoffGame(models.RoundDivisional, conf+"-North-1", conf+"-South-1", 20, 17),
			playoffGame(models.RoundConference, conf+"-East-1", conf+"-North-1", 28, 21),
		)
	}
	// AFC-North-1 lost its conference championship, so this game fits nothing
	games = append(games, playoffGame(models.RoundSuperbowl, "AFC-North-1", "NFC-East-1", 31, 27))

	_, err := BuildBracket("2025", seeds, games)
	if err == nil {
		t.Fatal("Expected error for superbowl game outside the bracket, got nil")
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("Expected data integrity error, got %v", err)
	}
}

func TestBuildBracketRejectsTiedPlayoffGame(t *testing.T) {
	seeds := testSeeds()
	games := []models.GameFact{
		playoffGame(models.RoundWildcard, "AFC-North-1", "AFC-South-2", 17, 17),
	}

	_, err := BuildBracket("2025", seeds, games)
	if err == nil {
		t.Fatal("Expected error for tied playoff game, got nil")
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("Expected data integrity error, got %v", err)
	}
}

func TestBuildProjectedBracketChalk(t *testing.T) {
	bracket, err := BuildProjectedBracket("2025", testSeeds(), nil, nil)
	if err != nil {
		t.Fatalf("BuildProjectedBracket() failed: %v", err)
	}

	// chalk advances the better seed everywhere: both 1 seeds reach the
	// superbowl with no scores recorded anywhere
	for _, conf := range []models.ConferenceRounds{bracket.AFC, bracket.NFC} {
		winner := conf.Conf[0].WinnerTeamID
		if winner == nil || *winner != string(conf.Conference)+"-East-1" {
			t.Fatalf("Conference %s: expected seed 1 projected champion", conf.Conference)
		}
		for _, m := range conf.Wildcard {
			if m.HomeScore != nil || m.AwayScore != nil {
				t.Fatal("Projected bracket must not fabricate scores")
			}
		}
	}

	sb := bracket.Superbowl
	if sb.HomeTeamID == nil || sb.AwayTeamID == nil {
		t.Fatal("Projected superbowl not populated")
	}
	if *sb.HomeTeamID != "AFC-East-1" || *sb.AwayTeamID != "NFC-East-1" {
		t.Fatalf("Projected superbowl teams wrong: %s vs %s", *sb.HomeTeamID, *sb.AwayTeamID)
	}
}

func TestBuildBracketMixedActualAndProjected(t *testing.T) {
	seeds := testSeeds()
	games := []models.GameFact{
		// one real upset: 7 over 2 in the AFC
		playoffGame(models.RoundWildcard, "AFC-North-1", "AFC-South-2", 13, 16),
	}

	bracket, err := BuildProjectedBracket("2025", seeds, games, ChalkPolicy{})
	if err != nil {
		t.Fatalf("BuildProjectedBracket() failed: %v", err)
	}

	// the actual result stands: seed 7 advances and meets seed 1
	div1 := bracket.AFC.Divisional[0]
	if div1.AwayTeamID == nil || *div1.AwayTeamID != "AFC-South-2" {
		t.Fatal("Actual wildcard result overridden by projection")
	}
	// from there chalk resumes: seed 1 is still projected conference champion
	if w := bracket.AFC.Conf[0].WinnerTeamID; w == nil || *w != "AFC-East-1" {
		t.Fatal("Projection did not resume after the actual result")
	}
}
