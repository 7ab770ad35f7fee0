package engine

import (
	"fmt"

	"github.com/goalpost-app/tournament-platform/models"
)

// Group is a named slice of team ids inside a group stage.
type Group struct {
	Name    string
	TeamIDs []int
}

// ComposeGroups splits teams into round-robin groups. Tournaments under
// 16 teams play in 2 groups, larger ones in 4; any remainder is dealt to
// the earliest groups so sizes never differ by more than one. Input order
// is preserved inside groups, so pass a shuffled slice for a random draw.
func ComposeGroups(teamIDs []int) ([]Group, error) {
	n := len(teamIDs)
	if n < 4 {
		return nil, fmt.Errorf("%w: group stage needs at least 4 teams, got %d", ErrInvalidInput, n)
	}

	count := 2
	if n >= 16 {
		count = 4
	}

	base := n / count
	extra := n % count

	groups := make([]Group, count)
	next := 0
	for i := range groups {
		size := base
		if i < extra {
			size++
		}
		groups[i] = Group{
			Name:    fmt.Sprintf("Group %c", 'A'+i),
			TeamIDs: teamIDs[next : next+size],
		}
		next += size
	}
	return groups, nil
}

// GroupFixtures generates a full round robin inside each group. Stage
// labels carry the group name, e.g. "Group A - Round 2".
func GroupFixtures(groups []Group) ([]Fixture, error) {
	var fixtures []Fixture
	for _, g := range groups {
		fs, err := GenerateRoundRobin(g.TeamIDs, g.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Name, err)
		}
		fixtures = append(fixtures, fs...)
	}
	return fixtures, nil
}

// GroupStanding pairs a group with its computed table.
type GroupStanding struct {
	Group Group
	Table []models.StandingsRow
}

// ComposeQualifiers orders the top two of each group for bracket seeding.
// Adjacent pairs of the returned slice become the first-round ties, so
// the order interleaves groups: A1 v B2, B1 v A2, then C1 v D2, D1 v C2.
// Group winners never meet their own runner-up in the first round.
func ComposeQualifiers(standings []GroupStanding) ([]int, error) {
	for _, gs := range standings {
		if len(gs.Table) < 2 {
			return nil, fmt.Errorf("%w: %s has fewer than 2 ranked teams", ErrInvalidInput, gs.Group.Name)
		}
	}
	if len(standings)%2 != 0 {
		return nil, fmt.Errorf("%w: cross-group seeding needs an even group count, got %d", ErrInvalidInput, len(standings))
	}

	seeds := make([]int, 0, 2*len(standings))
	for i := 0; i+1 < len(standings); i += 2 {
		a, b := standings[i].Table, standings[i+1].Table
		seeds = append(seeds,
			a[0].TeamID, b[1].TeamID,
			b[0].TeamID, a[1].TeamID,
		)
	}
	return seeds, nil
}

// LeagueQualifiers returns how many teams progress from a league phase
// into the knockout phase of a combination tournament: the largest of
// 8, 4 or 2 that the field supports.
func LeagueQualifiers(teamCount int) int {
	switch {
	case teamCount > 8:
		return 8
	case teamCount >= 4:
		return 4
	default:
		return 2
	}
}
