package services

import (
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func simulationSquads(t *testing.T) func(int) ([]models.TeamPlayer, error) {
	t.Helper()
	squads := map[int][]models.TeamPlayer{
		1: {
			{ID: 1, TeamID: 1, PlayerID: 10},
			{ID: 2, TeamID: 1, PlayerID: 11},
			{ID: 3, TeamID: 1, PlayerID: 12},
		},
		2: {
			{ID: 4, TeamID: 2, PlayerID: 20},
			{ID: 5, TeamID: 2, PlayerID: 21},
		},
	}
	return func(teamID int) ([]models.TeamPlayer, error) {
		return squads[teamID], nil
	}
}

func TestRandomGoalsAccountForFullScore(t *testing.T) {
	svc := &simulationService{}
	home, away := 1, 2
	match := &models.Match{HomeTeamID: &home, AwayTeamID: &away}

	goals, err := svc.randomGoals(match, 3, 2, simulationSquads(t))
	if err != nil {
		t.Fatalf("randomGoals: %v", err)
	}

	counts := map[int]int{}
	for _, g := range goals {
		counts[g.TeamID]++
		if g.TeamID == home && (g.ScorerID < 10 || g.ScorerID > 12) {
			t.Errorf("home goal credited to player %d, not in squad", g.ScorerID)
		}
		if g.TeamID == away && (g.ScorerID < 20 || g.ScorerID > 21) {
			t.Errorf("away goal credited to player %d, not in squad", g.ScorerID)
		}
		if g.AssistedByID != nil && *g.AssistedByID == g.ScorerID {
			t.Errorf("goal by player %d assisted by themselves", g.ScorerID)
		}
		if g.Minute == nil || *g.Minute < 1 || *g.Minute > 90 {
			t.Errorf("goal minute = %v, want 1..90", g.Minute)
		}
	}
	if counts[home] != 3 || counts[away] != 2 {
		t.Errorf("goal counts = %v, want 3 home and 2 away", counts)
	}
}

func TestRandomGoalsSquadlessSideFallsBackToScoreOnly(t *testing.T) {
	svc := &simulationService{}
	home, away := 1, 3 // team 3 has no registered squad
	match := &models.Match{HomeTeamID: &home, AwayTeamID: &away}

	goals, err := svc.randomGoals(match, 2, 1, simulationSquads(t))
	if err != nil {
		t.Fatalf("randomGoals: %v", err)
	}
	if goals != nil {
		t.Errorf("goals = %v, want nil so the result is recorded score-only", goals)
	}
}

func TestRandomGoalsGoallessMatch(t *testing.T) {
	svc := &simulationService{}
	home, away := 1, 2
	match := &models.Match{HomeTeamID: &home, AwayTeamID: &away}

	goals, err := svc.randomGoals(match, 0, 0, simulationSquads(t))
	if err != nil {
		t.Fatalf("randomGoals: %v", err)
	}
	if len(goals) != 0 {
		t.Errorf("goals = %v, want none", goals)
	}
}
