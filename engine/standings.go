package engine

import (
	"sort"

	"github.com/goalpost-app/tournament-platform/models"
)

// ComputeStandings builds a league table from finished matches only.
// Wins score 3, draws 1. Byes and matches still scheduled or live do not
// count, so played always equals won+drawn+lost. Ties on points break on
// goal difference, then goals scored; teams still level keep their input
// order. Rank is dense from 1.
func ComputeStandings(teams []models.Team, matches []models.Match) []models.StandingsRow {
	rows := make([]models.StandingsRow, len(teams))
	index := make(map[int]int, len(teams))
	for i, t := range teams {
		rows[i] = models.StandingsRow{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = i
	}

	for _, m := range matches {
		if m.Status != models.MatchFinished || m.IsBye() {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		hi, hok := index[*m.HomeTeamID]
		ai, aok := index[*m.AwayTeamID]
		if !hok || !aok {
			continue
		}

		hs, as := *m.HomeScore, *m.AwayScore

		rows[hi].Played++
		rows[hi].GoalsFor += hs
		rows[hi].GoalsAgainst += as
		rows[ai].Played++
		rows[ai].GoalsFor += as
		rows[ai].GoalsAgainst += hs

		switch {
		case hs > as:
			rows[hi].Won++
			rows[hi].Points += 3
			rows[ai].Lost++
		case hs < as:
			rows[ai].Won++
			rows[ai].Points += 3
			rows[hi].Lost++
		default:
			rows[hi].Drawn++
			rows[hi].Points++
			rows[ai].Drawn++
			rows[ai].Points++
		}
	}

	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		return a.GoalsFor > b.GoalsFor
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// GroupStandings computes one table per group, restricting matches to the
// group's own stage labels.
func GroupStandings(groups []Group, teams []models.Team, matches []models.Match) []GroupStanding {
	byID := make(map[int]models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	out := make([]GroupStanding, len(groups))
	for i, g := range groups {
		members := make([]models.Team, 0, len(g.TeamIDs))
		for _, id := range g.TeamIDs {
			if t, ok := byID[id]; ok {
				members = append(members, t)
			}
		}
		var own []models.Match
		for _, m := range matches {
			if GroupOf(m.Stage) == g.Name {
				own = append(own, m)
			}
		}
		out[i] = GroupStanding{Group: g, Table: ComputeStandings(members, own)}
	}
	return out
}
