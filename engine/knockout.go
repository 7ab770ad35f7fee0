package engine

import (
	"fmt"

	"github.com/goalpost-app/tournament-platform/models"
)

// BracketSeed is the first knockout round produced from an ordered seed
// list. Byes are fixtures with a nil away side: the seeded team advances
// without playing and no live match is scheduled for it.
type BracketSeed struct {
	Stage    string
	Fixtures []Fixture
}

// SeedBracket builds the opening round of a single-elimination bracket.
// The bracket is normalized to the next power of two: with n seeds,
// nextPow2(n)-n byes go to the highest seeds and the remaining teams pair
// off in seed order. Seed order is significant, which lets group-stage
// qualifiers arrive pre-ordered for cross-group pairings.
func SeedBracket(seedIDs []int) (BracketSeed, error) {
	n := len(seedIDs)
	if n < 2 {
		return BracketSeed{}, fmt.Errorf("%w: knockout bracket needs at least 2 teams, got %d", ErrInvalidInput, n)
	}

	size := nextPowerOfTwo(n)
	byes := size - n
	stage := RoundName(size)

	fixtures := make([]Fixture, 0, byes+(n-byes)/2)
	for i := 0; i < byes; i++ {
		id := seedIDs[i]
		fixtures = append(fixtures, Fixture{
			Stage:      stage,
			Round:      1,
			HomeTeamID: &id,
		})
	}
	for i := byes; i+1 < n; i += 2 {
		h, a := seedIDs[i], seedIDs[i+1]
		fixtures = append(fixtures, Fixture{
			Stage:      stage,
			Round:      1,
			HomeTeamID: &h,
			AwayTeamID: &a,
		})
	}

	return BracketSeed{Stage: stage, Fixtures: fixtures}, nil
}

// BracketState is the explicit, versioned round pointer for a bracket.
// It travels into and out of every advance call; the caller persists it
// with a compare-and-swap on Version so two concurrent advance requests
// cannot both create the next round.
type BracketState struct {
	Stage   string
	Version int
}

// AdvanceOutcome signals the result of an advance attempt. Gating
// conditions are outcomes, not errors: the call is safe to repeat from a
// polling UI action.
type AdvanceOutcome string

const (
	AdvanceGenerated AdvanceOutcome = "generated"
	AdvanceNotReady  AdvanceOutcome = "not_ready"
	AdvanceUpToDate  AdvanceOutcome = "already_generated"
	AdvanceComplete  AdvanceOutcome = "complete"
)

// BracketAdvance is the result of AdvanceBracket.
type BracketAdvance struct {
	Outcome  AdvanceOutcome
	Fixtures []Fixture
	State    BracketState
	Podium   *Podium
}

// Podium is the bracket outcome once the Final has been decided. Third
// place is the loser of the last semi-final; no separate third-place
// decider is modeled.
type Podium struct {
	WinnerID     int
	RunnerUpID   int
	ThirdPlaceID *int
}

// AdvanceBracket advances a bracket by exactly one round. matches must be
// the tournament's knockout matches (byes included). The call is
// idempotent: it reports NotReady while the current round has unfinished
// live matches, UpToDate when the next round already exists, Complete once
// the Final is decided, and only ever generates fixtures once per round.
// A drawn live match without decisive penalties yields ErrUnresolvedDraw.
func AdvanceBracket(state BracketState, matches []models.Match) (BracketAdvance, error) {
	if state.Stage == "" {
		return BracketAdvance{Outcome: AdvanceNotReady, State: state}, nil
	}

	var current []models.Match
	for _, m := range matches {
		if m.Stage == state.Stage {
			current = append(current, m)
		}
	}
	if len(current) == 0 {
		return BracketAdvance{}, fmt.Errorf("%w: no matches found for stage %q", ErrInvalidInput, state.Stage)
	}

	for _, m := range current {
		if !m.IsBye() && m.Status != models.MatchFinished {
			return BracketAdvance{Outcome: AdvanceNotReady, State: state}, nil
		}
	}

	// Winners in match order; byes resolve to the seeded side.
	winners := make([]int, 0, len(current))
	var lastLoser int
	for _, m := range current {
		w, l, err := matchWinner(m)
		if err != nil {
			return BracketAdvance{}, err
		}
		winners = append(winners, w)
		if !m.IsBye() {
			lastLoser = l
		}
	}

	if state.Stage == "Final" {
		podium := &Podium{WinnerID: winners[0], RunnerUpID: lastLoser}
		if third := semiFinalLoser(matches); third != 0 {
			podium.ThirdPlaceID = &third
		}
		return BracketAdvance{Outcome: AdvanceComplete, State: state, Podium: podium}, nil
	}

	nextStage := RoundName(len(winners))
	for _, m := range matches {
		if m.Stage == nextStage {
			return BracketAdvance{Outcome: AdvanceUpToDate, State: state}, nil
		}
	}

	fixtures := make([]Fixture, 0, len(winners)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		h, a := winners[i], winners[i+1]
		fixtures = append(fixtures, Fixture{
			Stage:      nextStage,
			Round:      1,
			HomeTeamID: &h,
			AwayTeamID: &a,
		})
	}

	return BracketAdvance{
		Outcome:  AdvanceGenerated,
		Fixtures: fixtures,
		State:    BracketState{Stage: nextStage, Version: state.Version + 1},
	}, nil
}

// ResolvePodium resolves winner, runner-up and third place from a
// completed bracket's matches. Used by the awards resolver.
func ResolvePodium(matches []models.Match) (*Podium, error) {
	var final *models.Match
	for i := range matches {
		if matches[i].Stage == "Final" && matches[i].Status == models.MatchFinished {
			final = &matches[i]
		}
	}
	if final == nil {
		return nil, nil
	}
	winner, loser, err := matchWinner(*final)
	if err != nil {
		return nil, err
	}
	podium := &Podium{WinnerID: winner, RunnerUpID: loser}
	if third := semiFinalLoser(matches); third != 0 {
		podium.ThirdPlaceID = &third
	}
	return podium, nil
}

// semiFinalLoser returns the loser of the last finished semi-final, or 0
// when none is determinable (unplayed semis, bye semis, unresolved draw).
func semiFinalLoser(matches []models.Match) int {
	loser := 0
	for _, m := range matches {
		if m.Stage != "Semi-Finals" || m.Status != models.MatchFinished || m.IsBye() {
			continue
		}
		if _, l, err := matchWinner(m); err == nil {
			loser = l
		}
	}
	return loser
}
