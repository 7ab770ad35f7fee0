package engine

import (
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func TestResolveAwardsEmptyTournament(t *testing.T) {
	set, err := ResolveAwards(AwardsInput{Format: models.FormatKnockout})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Winner != nil || set.RunnerUp != nil || set.ThirdPlace != nil ||
		set.TopScorer != nil || set.TopAssister != nil || set.CleanSheetsBest != nil || set.MVP != nil {
		t.Fatalf("empty tournament produced awards: %+v", set)
	}
}

func TestResolveAwardsKnockoutPodium(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "Rovers"}, {ID: 2, Name: "United"}, {ID: 3, Name: "Athletic"}, {ID: 4, Name: "Wanderers"}}
	matches := []models.Match{
		{ID: 1, Stage: "Semi-Finals", HomeTeamID: ip(1), AwayTeamID: ip(4),
			HomeScore: ip(2), AwayScore: ip(0), Status: models.MatchFinished},
		{ID: 2, Stage: "Semi-Finals", HomeTeamID: ip(2), AwayTeamID: ip(3),
			HomeScore: ip(1), AwayScore: ip(3), Status: models.MatchFinished},
		{ID: 3, Stage: "Final", HomeTeamID: ip(1), AwayTeamID: ip(3),
			HomeScore: ip(1), AwayScore: ip(0), Status: models.MatchFinished},
	}

	set, err := ResolveAwards(AwardsInput{Format: models.FormatKnockout, Teams: teams, Matches: matches})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Winner == nil || set.Winner.TeamID != 1 || set.Winner.TeamName != "Rovers" {
		t.Fatalf("winner = %+v, want Rovers", set.Winner)
	}
	if set.RunnerUp == nil || set.RunnerUp.TeamID != 3 {
		t.Fatalf("runner-up = %+v, want team 3", set.RunnerUp)
	}
	if set.ThirdPlace == nil || set.ThirdPlace.TeamID != 2 {
		t.Fatalf("third = %+v, want team 2", set.ThirdPlace)
	}
}

func TestResolveAwardsLeaguePodiumWaitsForSeasonEnd(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	standings := []models.StandingsRow{{TeamID: 1, Rank: 1}, {TeamID: 2, Rank: 2}}
	matches := []models.Match{
		finished(1, 1, 2, 2, 0),
		{ID: 2, HomeTeamID: ip(2), AwayTeamID: ip(1), Status: models.MatchScheduled},
	}

	set, err := ResolveAwards(AwardsInput{Format: models.FormatLeague, Teams: teams, Standings: standings, Matches: matches})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Winner != nil {
		t.Fatalf("winner crowned over an unfinished season: %+v", set.Winner)
	}

	matches[1].HomeScore, matches[1].AwayScore = ip(0), ip(0)
	matches[1].Status = models.MatchFinished
	set, err = ResolveAwards(AwardsInput{Format: models.FormatLeague, Teams: teams, Standings: standings, Matches: matches})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Winner == nil || set.Winner.TeamID != 1 {
		t.Fatalf("winner = %+v, want team 1", set.Winner)
	}
	if set.RunnerUp == nil || set.RunnerUp.TeamID != 2 {
		t.Fatalf("runner-up = %+v, want team 2", set.RunnerUp)
	}
}

func TestResolveAwardsMVPFromTallies(t *testing.T) {
	boards := models.Leaderboards{
		Goals: []models.PlayerTally{
			{PlayerID: 10, PlayerName: "Alex Mason", TeamID: 1, Goals: 4, Assists: 1},
			{PlayerID: 11, PlayerName: "Sam Rhodes", TeamID: 2, Goals: 3, Assists: 2},
		},
		Assists: []models.PlayerTally{
			{PlayerID: 11, PlayerName: "Sam Rhodes", TeamID: 2, Goals: 3, Assists: 2},
			{PlayerID: 10, PlayerName: "Alex Mason", TeamID: 1, Goals: 4, Assists: 1},
		},
	}
	set, err := ResolveAwards(AwardsInput{Format: models.FormatKnockout, Leaderboards: boards})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.MVP == nil {
		t.Fatal("no MVP resolved")
	}
	// Both score 5; more goals wins the tie.
	if set.MVP.PlayerID != 10 || set.MVP.Score != 5 || set.MVP.Manual {
		t.Fatalf("MVP = %+v, want computed player 10", set.MVP)
	}
}

func TestResolveAwardsMVPManualOverride(t *testing.T) {
	boards := models.Leaderboards{
		Goals: []models.PlayerTally{
			{PlayerID: 10, PlayerName: "Alex Mason", TeamID: 1, Goals: 4},
			{PlayerID: 11, PlayerName: "Sam Rhodes", TeamID: 2, Goals: 1},
		},
	}
	set, err := ResolveAwards(AwardsInput{
		Format:              models.FormatKnockout,
		Leaderboards:        boards,
		SelectedMVPPlayerID: ip(11),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.MVP == nil || set.MVP.PlayerID != 11 || !set.MVP.Manual {
		t.Fatalf("MVP = %+v, want manual player 11", set.MVP)
	}
	if set.MVP.Goals != 1 || set.MVP.Score != 1 {
		t.Errorf("override lost the tally: %+v", set.MVP)
	}
}

func TestResolveAwardsMVPManualOverrideWithoutEvents(t *testing.T) {
	// The pick never scored or assisted, so the name must come from the
	// player list rather than the tallies.
	set, err := ResolveAwards(AwardsInput{
		Format: models.FormatKnockout,
		Players: []models.Player{
			{ID: 12, FirstName: "Jo", LastName: "Keeper"},
		},
		Leaderboards: models.Leaderboards{
			Goals: []models.PlayerTally{{PlayerID: 10, PlayerName: "Alex Mason", TeamID: 1, Goals: 4}},
		},
		SelectedMVPPlayerID: ip(12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.MVP == nil || set.MVP.PlayerID != 12 || !set.MVP.Manual {
		t.Fatalf("MVP = %+v, want manual player 12", set.MVP)
	}
	if set.MVP.PlayerName != "Jo Keeper" {
		t.Errorf("PlayerName = %q, want %q", set.MVP.PlayerName, "Jo Keeper")
	}
	if set.MVP.Score != 0 {
		t.Errorf("Score = %d, want 0", set.MVP.Score)
	}
}

func TestResolveAwardsStatLeaders(t *testing.T) {
	boards := models.Leaderboards{
		Goals:       []models.PlayerTally{{PlayerID: 10, PlayerName: "Alex Mason", TeamID: 1, Goals: 4}},
		Assists:     []models.PlayerTally{{PlayerID: 11, PlayerName: "Sam Rhodes", TeamID: 2, Assists: 3}},
		CleanSheets: []models.TeamTally{{TeamID: 1, TeamName: "Rovers", CleanSheets: 2}},
	}
	set, err := ResolveAwards(AwardsInput{Format: models.FormatKnockout, Leaderboards: boards})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.TopScorer == nil || set.TopScorer.PlayerID != 10 || set.TopScorer.Tally != 4 {
		t.Errorf("top scorer = %+v", set.TopScorer)
	}
	if set.TopAssister == nil || set.TopAssister.PlayerID != 11 || set.TopAssister.Tally != 3 {
		t.Errorf("top assister = %+v", set.TopAssister)
	}
	if set.CleanSheetsBest == nil || set.CleanSheetsBest.TeamID != 1 {
		t.Errorf("clean sheets leader = %+v", set.CleanSheetsBest)
	}
}
