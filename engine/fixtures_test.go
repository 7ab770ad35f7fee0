package engine

import (
	"errors"
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func TestGenerateFixturesLeague(t *testing.T) {
	res, err := GenerateFixtures(GenerateInput{Format: models.FormatLeague, TeamIDs: []int{1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Fixtures) != 6 {
		t.Fatalf("got %d fixtures, want 6", len(res.Fixtures))
	}
	if res.Structure.KnockoutStage != "" {
		t.Errorf("league set a knockout stage: %q", res.Structure.KnockoutStage)
	}
	for _, f := range res.Fixtures {
		if IsKnockoutStage(f.Stage) {
			t.Errorf("league fixture labelled as knockout: %q", f.Stage)
		}
	}
}

func TestGenerateFixturesKnockout(t *testing.T) {
	res, err := GenerateFixtures(GenerateInput{Format: models.FormatKnockout, TeamIDs: []int{1, 2, 3, 4, 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Structure.KnockoutStage != "Quarter-Finals" {
		t.Fatalf("knockout stage = %q, want Quarter-Finals", res.Structure.KnockoutStage)
	}
	if len(res.Fixtures) != 4 {
		t.Fatalf("got %d fixtures, want 4", len(res.Fixtures))
	}
}

func TestGenerateFixturesGroupsKnockout(t *testing.T) {
	ids := make([]int, 8)
	for i := range ids {
		ids[i] = i + 1
	}
	res, err := GenerateFixtures(GenerateInput{
		Format:    models.FormatCombination,
		Structure: models.TournamentStructure{CombinationType: models.CombinationGroupsKnockout},
		TeamIDs:   ids,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(res.Groups))
	}
	// Two groups of 4, full round robin in each.
	if len(res.Fixtures) != 12 {
		t.Fatalf("got %d fixtures, want 12", len(res.Fixtures))
	}
	if res.Structure.KnockoutStage != "" {
		t.Errorf("group phase set a knockout stage prematurely: %q", res.Structure.KnockoutStage)
	}
}

func TestGenerateFixturesLeagueKnockout(t *testing.T) {
	res, err := GenerateFixtures(GenerateInput{
		Format:    models.FormatCombination,
		Structure: models.TournamentStructure{CombinationType: models.CombinationLeagueKnockout},
		TeamIDs:   []int{1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Fixtures) != 10 {
		t.Fatalf("got %d fixtures, want 10", len(res.Fixtures))
	}
	if res.Structure.KnockoutStage != "" {
		t.Errorf("league phase set a knockout stage prematurely: %q", res.Structure.KnockoutStage)
	}
}

func TestGenerateFixturesUnknownFormat(t *testing.T) {
	if _, err := GenerateFixtures(GenerateInput{Format: "ladder", TeamIDs: []int{1, 2}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	_, err := GenerateFixtures(GenerateInput{
		Format:  models.FormatCombination,
		TeamIDs: []int{1, 2, 3, 4},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput for missing combination type", err)
	}
}

func TestSeedKnockoutPhase(t *testing.T) {
	structure := models.TournamentStructure{CombinationType: models.CombinationGroupsKnockout}
	res, outcome, err := SeedKnockoutPhase(structure, []int{1, 4, 3, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AdvanceGenerated {
		t.Fatalf("outcome = %q, want %q", outcome, AdvanceGenerated)
	}
	if res.Structure.KnockoutStage != "Semi-Finals" || len(res.Fixtures) != 2 {
		t.Fatalf("seeded phase = %+v", res)
	}

	// Seeding again is a no-op.
	again, outcome, err := SeedKnockoutPhase(res.Structure, []int{1, 4, 3, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AdvanceUpToDate || len(again.Fixtures) != 0 {
		t.Fatalf("repeat seeding = %q with %d fixtures", outcome, len(again.Fixtures))
	}
}
