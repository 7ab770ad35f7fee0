package engine

import (
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func finished(id, home, away, hs, as int) models.Match {
	return models.Match{
		ID:         id,
		HomeTeamID: ip(home),
		AwayTeamID: ip(away),
		HomeScore:  ip(hs),
		AwayScore:  ip(as),
		Status:     models.MatchFinished,
	}
}

func TestComputeStandingsTable(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Rovers"},
		{ID: 2, Name: "United"},
		{ID: 3, Name: "Athletic"},
		{ID: 4, Name: "Wanderers"},
	}
	matches := []models.Match{
		finished(1, 1, 2, 3, 0),
		finished(2, 3, 4, 1, 1),
		finished(3, 1, 3, 2, 2),
		finished(4, 2, 4, 0, 1),
	}

	rows := ComputeStandings(teams, matches)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	want := []models.StandingsRow{
		{TeamID: 1, TeamName: "Rovers", Played: 2, Won: 1, Drawn: 1, Lost: 0, GoalsFor: 5, GoalsAgainst: 2, GoalDiff: 3, Points: 4, Rank: 1},
		{TeamID: 4, TeamName: "Wanderers", Played: 2, Won: 1, Drawn: 1, Lost: 0, GoalsFor: 2, GoalsAgainst: 1, GoalDiff: 1, Points: 4, Rank: 2},
		{TeamID: 3, TeamName: "Athletic", Played: 2, Won: 0, Drawn: 2, Lost: 0, GoalsFor: 3, GoalsAgainst: 3, GoalDiff: 0, Points: 2, Rank: 3},
		{TeamID: 2, TeamName: "United", Played: 2, Won: 0, Drawn: 0, Lost: 2, GoalsFor: 0, GoalsAgainst: 4, GoalDiff: -4, Points: 0, Rank: 4},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestComputeStandingsCountsFinishedOnly(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	matches := []models.Match{
		{ID: 1, HomeTeamID: ip(1), AwayTeamID: ip(2), HomeScore: ip(4), AwayScore: ip(0), Status: models.MatchLive},
		{ID: 2, HomeTeamID: ip(1), AwayTeamID: ip(2), Status: models.MatchScheduled},
	}
	for _, row := range ComputeStandings(teams, matches) {
		if row.Played != 0 || row.Points != 0 {
			t.Errorf("unfinished matches counted: %+v", row)
		}
	}
}

func TestComputeStandingsSkipsByes(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	matches := []models.Match{
		{ID: 1, HomeTeamID: ip(1), Status: models.MatchFinished},
		finished(2, 1, 2, 1, 0),
	}
	rows := ComputeStandings(teams, matches)
	if rows[0].TeamID != 1 || rows[0].Played != 1 {
		t.Fatalf("bye affected the table: %+v", rows[0])
	}
}

func TestComputeStandingsPlayedInvariant(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}, {ID: 3}}
	matches := []models.Match{
		finished(1, 1, 2, 2, 1),
		finished(2, 2, 3, 0, 0),
		{ID: 3, HomeTeamID: ip(1), AwayTeamID: ip(3), Status: models.MatchScheduled},
	}
	for _, row := range ComputeStandings(teams, matches) {
		if row.Played != row.Won+row.Drawn+row.Lost {
			t.Errorf("played %d != W+D+L %d for team %d", row.Played, row.Won+row.Drawn+row.Lost, row.TeamID)
		}
	}
}

func TestComputeStandingsPure(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	matches := []models.Match{finished(1, 1, 2, 2, 0)}

	first := ComputeStandings(teams, matches)
	second := ComputeStandings(teams, matches)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated computation differs: %+v vs %+v", first[i], second[i])
		}
	}
	if teams[0].ID != 1 || *matches[0].HomeScore != 2 {
		t.Fatal("inputs mutated")
	}
}

func TestGroupStandingsScopedByStage(t *testing.T) {
	groups := []Group{
		{Name: "Group A", TeamIDs: []int{1, 2}},
		{Name: "Group B", TeamIDs: []int{3, 4}},
	}
	teams := []models.Team{{ID: 1, Name: "A1"}, {ID: 2, Name: "A2"}, {ID: 3, Name: "B1"}, {ID: 4, Name: "B2"}}
	ga := finished(1, 1, 2, 1, 0)
	ga.Stage = "Group A - Round 1"
	gb := finished(2, 3, 4, 0, 2)
	gb.Stage = "Group B - Round 1"

	standings := GroupStandings(groups, teams, []models.Match{ga, gb})
	if len(standings) != 2 {
		t.Fatalf("got %d group tables, want 2", len(standings))
	}
	if standings[0].Table[0].TeamID != 1 {
		t.Errorf("Group A leader = %d, want 1", standings[0].Table[0].TeamID)
	}
	if standings[1].Table[0].TeamID != 4 {
		t.Errorf("Group B leader = %d, want 4", standings[1].Table[0].TeamID)
	}
	if standings[0].Table[0].Played != 1 || standings[1].Table[0].Played != 1 {
		t.Error("cross-group matches leaked into a table")
	}
}
