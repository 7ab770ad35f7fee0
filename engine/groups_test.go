package engine

import (
	"errors"
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func TestComposeGroupsSmallField(t *testing.T) {
	groups, err := ComposeGroups([]int{1, 2, 3, 4, 5, 6, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Group A" || groups[1].Name != "Group B" {
		t.Fatalf("names = %q, %q", groups[0].Name, groups[1].Name)
	}
	// Remainder lands in the earliest group.
	if len(groups[0].TeamIDs) != 4 || len(groups[1].TeamIDs) != 3 {
		t.Fatalf("sizes = %d, %d, want 4 and 3", len(groups[0].TeamIDs), len(groups[1].TeamIDs))
	}
}

func TestComposeGroupsLargeField(t *testing.T) {
	ids := make([]int, 18)
	for i := range ids {
		ids[i] = i + 1
	}
	groups, err := ComposeGroups(ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	sizes := []int{len(groups[0].TeamIDs), len(groups[1].TeamIDs), len(groups[2].TeamIDs), len(groups[3].TeamIDs)}
	want := []int{5, 5, 4, 4}
	for i := range sizes {
		if sizes[i] != want[i] {
			t.Errorf("group %d size = %d, want %d", i, sizes[i], want[i])
		}
	}

	seen := make(map[int]bool)
	for _, g := range groups {
		for _, id := range g.TeamIDs {
			if seen[id] {
				t.Fatalf("team %d assigned twice", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 18 {
		t.Fatalf("assigned %d teams, want 18", len(seen))
	}
}

func TestComposeGroupsTooFewTeams(t *testing.T) {
	if _, err := ComposeGroups([]int{1, 2, 3}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestGroupFixturesScopedToGroups(t *testing.T) {
	groups := []Group{
		{Name: "Group A", TeamIDs: []int{1, 2, 3}},
		{Name: "Group B", TeamIDs: []int{4, 5, 6}},
	}
	fixtures, err := GroupFixtures(groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 6 {
		t.Fatalf("got %d fixtures, want 6", len(fixtures))
	}
	for _, f := range fixtures {
		group := GroupOf(f.Stage)
		inB := *f.HomeTeamID >= 4
		if inB && group != "Group B" || !inB && group != "Group A" {
			t.Errorf("fixture %d v %d labelled %q", *f.HomeTeamID, *f.AwayTeamID, f.Stage)
		}
	}
}

func TestComposeQualifiersCrossGroupPairing(t *testing.T) {
	standings := []GroupStanding{
		{Group: Group{Name: "Group A"}, Table: []models.StandingsRow{{TeamID: 1}, {TeamID: 2}}},
		{Group: Group{Name: "Group B"}, Table: []models.StandingsRow{{TeamID: 3}, {TeamID: 4}}},
		{Group: Group{Name: "Group C"}, Table: []models.StandingsRow{{TeamID: 5}, {TeamID: 6}}},
		{Group: Group{Name: "Group D"}, Table: []models.StandingsRow{{TeamID: 7}, {TeamID: 8}}},
	}
	seeds, err := ComposeQualifiers(standings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A1 v B2, B1 v A2, C1 v D2, D1 v C2 once paired off adjacently.
	want := []int{1, 4, 3, 2, 5, 8, 7, 6}
	if len(seeds) != len(want) {
		t.Fatalf("got %d seeds, want %d", len(seeds), len(want))
	}
	for i := range want {
		if seeds[i] != want[i] {
			t.Fatalf("seeds = %v, want %v", seeds, want)
		}
	}
}

func TestComposeQualifiersRejectsShortTables(t *testing.T) {
	standings := []GroupStanding{
		{Group: Group{Name: "Group A"}, Table: []models.StandingsRow{{TeamID: 1}}},
		{Group: Group{Name: "Group B"}, Table: []models.StandingsRow{{TeamID: 3}, {TeamID: 4}}},
	}
	if _, err := ComposeQualifiers(standings); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestLeagueQualifiers(t *testing.T) {
	tests := []struct{ teams, want int }{
		{2, 2}, {3, 2}, {4, 4}, {8, 4}, {9, 8}, {20, 8},
	}
	for _, tc := range tests {
		if got := LeagueQualifiers(tc.teams); got != tc.want {
			t.Errorf("LeagueQualifiers(%d) = %d, want %d", tc.teams, got, tc.want)
		}
	}
}
