package engine

import "sort"

// comparator returns a negative value when a ranks ahead of b, positive when
// b ranks ahead, and zero when the rule cannot separate them.
type comparator func(a, b *accumulator) int

// tiebreakChain is the ordered ranking policy: win percentage first, then
// head-to-head among the tied pair, division record (same-division ties
// only), conference record, point differential, points scored. The final
// team-ID rule is a deterministic fallback, not a ranking opinion.
func tiebreakChain() []comparator {
	return []comparator{
		compareWinPct,
		compareHeadToHead,
		compareDivisionRecord,
		compareConferenceRecord,
		comparePointDiff,
		comparePointsFor,
		compareTeamID,
	}
}

// rank orders accumulators best-to-worst by applying the chain left to right
// until one rule yields a decision.
func rank(accs []*accumulator) {
	chain := tiebreakChain()
	sort.SliceStable(accs, func(i, j int) bool {
		for _, cmp := range chain {
			if c := cmp(accs[i], accs[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func compareIntDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func compareWinPct(a, b *accumulator) int {
	return compareFloatDesc(a.record.WinPct(), b.record.WinPct())
}

// compareHeadToHead compares the two teams' records against each other. With
// no meetings both sides are 0-0-0 and the rule abstains.
func compareHeadToHead(a, b *accumulator) int {
	ra := a.headToHead[b.team.ID]
	rb := b.headToHead[a.team.ID]
	if ra.Games() == 0 && rb.Games() == 0 {
		return 0
	}
	return compareFloatDesc(ra.WinPct(), rb.WinPct())
}

// compareDivisionRecord applies only to teams in the same division.
func compareDivisionRecord(a, b *accumulator) int {
	if a.team.Conference != b.team.Conference || a.team.Division != b.team.Division {
		return 0
	}
	return compareFloatDesc(a.division.WinPct(), b.division.WinPct())
}

func compareConferenceRecord(a, b *accumulator) int {
	if a.team.Conference != b.team.Conference {
		return 0
	}
	return compareFloatDesc(a.conference.WinPct(), b.conference.WinPct())
}

func comparePointDiff(a, b *accumulator) int {
	return compareIntDesc(a.pointsFor-a.pointsAgainst, b.pointsFor-b.pointsAgainst)
}

func comparePointsFor(a, b *accumulator) int {
	return compareIntDesc(a.pointsFor, b.pointsFor)
}

func compareTeamID(a, b *accumulator) int {
	switch {
	case a.team.ID < b.team.ID:
		return -1
	case a.team.ID > b.team.ID:
		return 1
	}
	return 0
}
