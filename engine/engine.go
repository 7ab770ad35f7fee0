// Package engine is the tournament format engine: fixture generation,
// knockout round advancement, standings, leaderboards and awards. Every
// function is a pure computation over plain model values; persistence and
// concurrency control belong to the caller.
package engine

import (
	"fmt"
	"strings"

	"github.com/goalpost-app/tournament-platform/models"
)

// Fixture is one generated pairing before it becomes a persisted match.
// A nil AwayTeamID denotes a bye: the home side advances without playing.
type Fixture struct {
	Stage      string
	Round      int
	HomeTeamID *int
	AwayTeamID *int
}

// Bye reports whether the fixture is a bye entry.
func (f Fixture) Bye() bool {
	return f.HomeTeamID != nil && f.AwayTeamID == nil
}

// nextPowerOfTwo returns the smallest power of two >= n (n >= 1).
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// RoundName derives a knockout round label purely from the number of
// bracket slots contesting the round.
func RoundName(slots int) string {
	switch slots {
	case 2:
		return "Final"
	case 4:
		return "Semi-Finals"
	case 8:
		return "Quarter-Finals"
	case 16:
		return "Round of 16"
	default:
		return fmt.Sprintf("Round of %d", slots)
	}
}

// IsKnockoutStage reports whether a stage label names a knockout round
// (as opposed to a league round or a group round).
func IsKnockoutStage(stage string) bool {
	if stage == "" {
		return false
	}
	if strings.HasPrefix(stage, "Group ") {
		return false
	}
	switch {
	case stage == "Final", stage == "Semi-Finals", stage == "Quarter-Finals":
		return true
	case strings.HasPrefix(stage, "Round of "):
		return true
	}
	return false
}

// GroupOf extracts the group name from a stage label such as
// "Group A - Round 2". Returns "" for non-group stages.
func GroupOf(stage string) string {
	if !strings.HasPrefix(stage, "Group ") {
		return ""
	}
	if idx := strings.Index(stage, " - "); idx > 0 {
		return stage[:idx]
	}
	return stage
}

func roundLabel(prefix string, round int) string {
	if prefix == "" {
		return fmt.Sprintf("Round %d", round)
	}
	return fmt.Sprintf("%s - Round %d", prefix, round)
}

// matchWinner resolves a finished knockout match: score first, penalty
// scores to break a draw. A bye resolves to the seeded side. Returns
// ErrUnresolvedDraw when neither decides the tie.
func matchWinner(m models.Match) (winnerID, loserID int, err error) {
	if m.IsBye() {
		if m.HomeTeamID != nil {
			return *m.HomeTeamID, 0, nil
		}
		return *m.AwayTeamID, 0, nil
	}
	if m.HomeTeamID == nil || m.AwayTeamID == nil || m.HomeScore == nil || m.AwayScore == nil {
		return 0, 0, fmt.Errorf("%w: match %d has no result", ErrInvalidInput, m.ID)
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return *m.HomeTeamID, *m.AwayTeamID, nil
	case *m.AwayScore > *m.HomeScore:
		return *m.AwayTeamID, *m.HomeTeamID, nil
	}
	if m.HomePens != nil && m.AwayPens != nil {
		switch {
		case *m.HomePens > *m.AwayPens:
			return *m.HomeTeamID, *m.AwayTeamID, nil
		case *m.AwayPens > *m.HomePens:
			return *m.AwayTeamID, *m.HomeTeamID, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: match %d (%d-%d)", ErrUnresolvedDraw, m.ID, *m.HomeScore, *m.AwayScore)
}
