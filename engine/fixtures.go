package engine

import (
	"fmt"

	"github.com/goalpost-app/tournament-platform/models"
)

// GenerateInput selects the format and carries the confirmed teams in
// draw order. For combination formats the structure's CombinationType
// picks the sub-format.
type GenerateInput struct {
	Format    models.Format
	Structure models.TournamentStructure
	TeamIDs   []int
}

// GenerateResult is the full initial schedule plus the structure updates
// the caller must persist alongside it. KnockoutStage is set whenever a
// bracket round was seeded immediately; combination formats with a league
// or group phase leave it empty until the phase completes.
type GenerateResult struct {
	Fixtures  []Fixture
	Groups    []Group
	Structure models.TournamentStructure
}

// GenerateFixtures produces the opening schedule for a tournament. The
// switch over formats is exhaustive; an unknown format or combination
// type is ErrInvalidInput, never a silent empty schedule.
func GenerateFixtures(in GenerateInput) (GenerateResult, error) {
	switch in.Format {
	case models.FormatLeague:
		fixtures, err := GenerateRoundRobin(in.TeamIDs, "League")
		if err != nil {
			return GenerateResult{}, err
		}
		return GenerateResult{Fixtures: fixtures, Structure: in.Structure}, nil

	case models.FormatKnockout:
		seed, err := SeedBracket(in.TeamIDs)
		if err != nil {
			return GenerateResult{}, err
		}
		structure := in.Structure
		structure.KnockoutStage = seed.Stage
		return GenerateResult{Fixtures: seed.Fixtures, Structure: structure}, nil

	case models.FormatCombination:
		return generateCombination(in)
	}
	return GenerateResult{}, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, in.Format)
}

func generateCombination(in GenerateInput) (GenerateResult, error) {
	switch in.Structure.CombinationType {
	case models.CombinationLeagueKnockout:
		fixtures, err := GenerateRoundRobin(in.TeamIDs, "League")
		if err != nil {
			return GenerateResult{}, err
		}
		return GenerateResult{Fixtures: fixtures, Structure: in.Structure}, nil

	case models.CombinationGroupsKnockout:
		groups, err := ComposeGroups(in.TeamIDs)
		if err != nil {
			return GenerateResult{}, err
		}
		fixtures, err := GroupFixtures(groups)
		if err != nil {
			return GenerateResult{}, err
		}
		return GenerateResult{Fixtures: fixtures, Groups: groups, Structure: in.Structure}, nil
	}
	return GenerateResult{}, fmt.Errorf("%w: unknown combination type %q", ErrInvalidInput, in.Structure.CombinationType)
}

// SeedKnockoutPhase starts the knockout phase of a combination tournament
// from an ordered qualifier list. It refuses to run twice: a structure
// that already points at a knockout stage is reported as already
// generated through the returned outcome.
func SeedKnockoutPhase(structure models.TournamentStructure, seedIDs []int) (GenerateResult, AdvanceOutcome, error) {
	if structure.KnockoutStage != "" {
		return GenerateResult{Structure: structure}, AdvanceUpToDate, nil
	}
	seed, err := SeedBracket(seedIDs)
	if err != nil {
		return GenerateResult{}, "", err
	}
	structure.KnockoutStage = seed.Stage
	return GenerateResult{Fixtures: seed.Fixtures, Structure: structure}, AdvanceGenerated, nil
}
