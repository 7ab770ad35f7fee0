package engine

import (
	"fmt"
)

// GenerateRoundRobin produces a full single round-robin schedule for the
// given teams using the circle method: one side stays fixed while the rest
// rotate, so every unordered pair meets exactly once and each team plays at
// most once per round. Team order is significant: the same input always
// yields the same schedule. stagePrefix scopes the round labels, e.g.
// "Group A" yields "Group A - Round 1"; an empty prefix yields "Round 1".
//
// For n teams the schedule holds exactly n*(n-1)/2 fixtures. Round-robin
// play never needs byes: with an odd field one team simply sits out each
// round.
func GenerateRoundRobin(teamIDs []int, stagePrefix string) ([]Fixture, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: round-robin needs at least 2 teams, got %d", ErrInvalidInput, n)
	}

	// Pad an odd field with a ghost slot; pairings against it are skipped.
	slots := make([]int, 0, n+1)
	slots = append(slots, teamIDs...)
	ghost := n%2 == 1
	if ghost {
		slots = append(slots, -1)
	}
	size := len(slots)
	rounds := size - 1

	fixtures := make([]Fixture, 0, n*(n-1)/2)
	rotating := make([]int, size-1)
	copy(rotating, slots[1:])

	for round := 1; round <= rounds; round++ {
		pairs := make([][2]int, 0, size/2)
		pairs = append(pairs, [2]int{slots[0], rotating[0]})
		for i := 1; i < size/2; i++ {
			pairs = append(pairs, [2]int{rotating[i], rotating[len(rotating)-i]})
		}

		for i, pair := range pairs {
			home, away := pair[0], pair[1]
			if home == -1 || away == -1 {
				continue
			}
			// Alternate the fixed team's venue so home counts stay balanced.
			if i == 0 && round%2 == 0 {
				home, away = away, home
			}
			h, a := home, away
			fixtures = append(fixtures, Fixture{
				Stage:      roundLabel(stagePrefix, round),
				Round:      round,
				HomeTeamID: &h,
				AwayTeamID: &a,
			})
		}

		// Rotate clockwise around the fixed slot.
		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}

	return fixtures, nil
}
