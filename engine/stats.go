package engine

import (
	"sort"

	"github.com/goalpost-app/tournament-platform/models"
)

// StatsInput carries everything the aggregators need. Players must hold
// every registered player of the tournament so leaderboards can show
// names; scorers and assists come from finished matches.
type StatsInput struct {
	Players []models.Player
	Teams   []models.Team
	Matches []models.Match
	Scorers []models.MatchScorer
	Assists []models.MatchAssist
}

// ComputeLeaderboards aggregates goals, assists and clean sheets.
// Appearances count distinct matches in which a player was involved in at
// least one recorded event. Only finished, non-bye matches contribute.
func ComputeLeaderboards(in StatsInput) models.Leaderboards {
	finished := make(map[int]models.Match, len(in.Matches))
	for _, m := range in.Matches {
		if m.Status == models.MatchFinished && !m.IsBye() {
			finished[m.ID] = m
		}
	}

	tallies := make(map[int]*models.PlayerTally)
	appeared := make(map[int]map[int]struct{})
	touch := func(playerID, matchID int) *models.PlayerTally {
		t, ok := tallies[playerID]
		if !ok {
			t = &models.PlayerTally{PlayerID: playerID}
			tallies[playerID] = t
			appeared[playerID] = make(map[int]struct{})
		}
		if _, seen := appeared[playerID][matchID]; !seen {
			appeared[playerID][matchID] = struct{}{}
			t.Appearances++
		}
		return t
	}

	for _, s := range in.Scorers {
		if _, ok := finished[s.MatchID]; !ok {
			continue
		}
		t := touch(s.PlayerID, s.MatchID)
		t.Goals++
		t.TeamID = s.TeamID
	}
	for _, a := range in.Assists {
		if _, ok := finished[a.MatchID]; !ok {
			continue
		}
		t := touch(a.PlayerID, a.MatchID)
		t.Assists++
		t.TeamID = a.TeamID
	}

	names := make(map[int]string, len(in.Players))
	for _, p := range in.Players {
		names[p.ID] = p.FullName()
	}

	players := make([]models.PlayerTally, 0, len(tallies))
	for _, t := range tallies {
		t.PlayerName = names[t.PlayerID]
		players = append(players, *t)
	}

	goals := rankedBy(players, func(t models.PlayerTally) int { return t.Goals })
	assists := rankedBy(players, func(t models.PlayerTally) int { return t.Assists })

	return models.Leaderboards{
		Goals:       goals,
		Assists:     assists,
		CleanSheets: cleanSheets(in.Teams, finished),
	}
}

// rankedBy sorts descending by the metric, breaking ties on fewer
// appearances then lower player id, and drops zero entries.
func rankedBy(players []models.PlayerTally, metric func(models.PlayerTally) int) []models.PlayerTally {
	out := make([]models.PlayerTally, 0, len(players))
	for _, p := range players {
		if metric(p) > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if m, n := metric(a), metric(b); m != n {
			return m > n
		}
		if a.Appearances != b.Appearances {
			return a.Appearances < b.Appearances
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}

func cleanSheets(teams []models.Team, finished map[int]models.Match) []models.TeamTally {
	sheets := make(map[int]int)
	for _, m := range finished {
		if m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		if *m.AwayScore == 0 {
			sheets[*m.HomeTeamID]++
		}
		if *m.HomeScore == 0 {
			sheets[*m.AwayTeamID]++
		}
	}

	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	out := make([]models.TeamTally, 0, len(sheets))
	for id, n := range sheets {
		out = append(out, models.TeamTally{TeamID: id, TeamName: names[id], CleanSheets: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CleanSheets != out[j].CleanSheets {
			return out[i].CleanSheets > out[j].CleanSheets
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}
