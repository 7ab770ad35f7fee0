package engine

import (
	"github.com/goalpost-app/tournament-platform/models"
)

// AwardsInput is everything the resolver may draw on. Standings feed the
// podium for league formats, matches feed it for knockouts.
type AwardsInput struct {
	Format              models.Format
	Teams               []models.Team
	Players             []models.Player
	Standings           []models.StandingsRow
	Matches             []models.Match
	Leaderboards        models.Leaderboards
	SelectedMVPPlayerID *int
}

// ResolveAwards derives the award set from whatever is decided so far.
// Missing data leaves the corresponding slot nil rather than failing, so
// the call is valid at any point in a tournament's life. The podium comes
// from final standings for leagues and from the bracket for formats with
// a knockout phase. MVP scores goals plus assists, ties breaking toward
// more goals then lower player id; a selected MVP id overrides the
// computation and is marked Manual.
func ResolveAwards(in AwardsInput) (models.AwardSet, error) {
	var set models.AwardSet

	names := make(map[int]string, len(in.Teams))
	for _, t := range in.Teams {
		names[t.ID] = t.Name
	}

	if in.Format == models.FormatLeague {
		leaguePodium(&set, in.Standings, in.Matches, names)
	} else {
		podium, err := ResolvePodium(in.Matches)
		if err != nil {
			return models.AwardSet{}, err
		}
		if podium != nil {
			set.Winner = &models.TeamAward{TeamID: podium.WinnerID, TeamName: names[podium.WinnerID], Position: 1}
			set.RunnerUp = &models.TeamAward{TeamID: podium.RunnerUpID, TeamName: names[podium.RunnerUpID], Position: 2}
			if podium.ThirdPlaceID != nil {
				id := *podium.ThirdPlaceID
				set.ThirdPlace = &models.TeamAward{TeamID: id, TeamName: names[id], Position: 3}
			}
		}
	}

	if top := first(in.Leaderboards.Goals); top != nil {
		set.TopScorer = &models.PlayerAward{PlayerID: top.PlayerID, PlayerName: top.PlayerName, TeamID: top.TeamID, Tally: top.Goals}
	}
	if top := first(in.Leaderboards.Assists); top != nil {
		set.TopAssister = &models.PlayerAward{PlayerID: top.PlayerID, PlayerName: top.PlayerName, TeamID: top.TeamID, Tally: top.Assists}
	}
	if len(in.Leaderboards.CleanSheets) > 0 {
		best := in.Leaderboards.CleanSheets[0]
		set.CleanSheetsBest = &best
	}

	set.MVP = resolveMVP(in)
	return set, nil
}

// leaguePodium fills podium slots from the table, but only once every
// scheduled match is finished. A table over an unfinished season must not
// crown a winner.
func leaguePodium(set *models.AwardSet, table []models.StandingsRow, matches []models.Match, names map[int]string) {
	for _, m := range matches {
		if !m.IsBye() && m.Status != models.MatchFinished {
			return
		}
	}
	if len(matches) == 0 {
		return
	}
	for i, row := range table {
		if i >= 3 {
			break
		}
		award := &models.TeamAward{TeamID: row.TeamID, TeamName: names[row.TeamID], Position: i + 1}
		switch i {
		case 0:
			set.Winner = award
		case 1:
			set.RunnerUp = award
		case 2:
			set.ThirdPlace = award
		}
	}
}

func resolveMVP(in AwardsInput) *models.MVPAward {
	tallies := make(map[int]models.PlayerTally)
	for _, t := range in.Leaderboards.Goals {
		tallies[t.PlayerID] = t
	}
	for _, t := range in.Leaderboards.Assists {
		if _, ok := tallies[t.PlayerID]; !ok {
			tallies[t.PlayerID] = t
		}
	}

	if in.SelectedMVPPlayerID != nil {
		id := *in.SelectedMVPPlayerID
		t, ok := tallies[id]
		t.PlayerID = id
		if !ok {
			// No recorded events for the pick; the name comes from the
			// player list instead.
			for _, p := range in.Players {
				if p.ID == id {
					t.PlayerName = p.FullName()
					break
				}
			}
		}
		return &models.MVPAward{
			PlayerID:   id,
			PlayerName: t.PlayerName,
			TeamID:     t.TeamID,
			Goals:      t.Goals,
			Assists:    t.Assists,
			Score:      t.Goals + t.Assists,
			Manual:     true,
		}
	}

	var best *models.PlayerTally
	for id := range tallies {
		t := tallies[id]
		if best == nil {
			best = &t
			continue
		}
		bs, ts := best.Goals+best.Assists, t.Goals+t.Assists
		switch {
		case ts > bs:
			best = &t
		case ts == bs && t.Goals > best.Goals:
			best = &t
		case ts == bs && t.Goals == best.Goals && t.PlayerID < best.PlayerID:
			best = &t
		}
	}
	if best == nil || best.Goals+best.Assists == 0 {
		return nil
	}
	return &models.MVPAward{
		PlayerID:   best.PlayerID,
		PlayerName: best.PlayerName,
		TeamID:     best.TeamID,
		Goals:      best.Goals,
		Assists:    best.Assists,
		Score:      best.Goals + best.Assists,
	}
}

func first(ts []models.PlayerTally) *models.PlayerTally {
	if len(ts) == 0 {
		return nil
	}
	return &ts[0]
}
