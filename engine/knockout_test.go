package engine

import (
	"errors"
	"testing"

	"github.com/goalpost-app/tournament-platform/models"
)

func TestSeedBracketPowerOfTwo(t *testing.T) {
	seed, err := SeedBracket([]int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seed.Stage != "Semi-Finals" {
		t.Fatalf("stage = %q, want Semi-Finals", seed.Stage)
	}
	if len(seed.Fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(seed.Fixtures))
	}
	for _, f := range seed.Fixtures {
		if f.Bye() {
			t.Fatalf("power-of-two bracket must not contain byes: %+v", f)
		}
	}
	if *seed.Fixtures[0].HomeTeamID != 1 || *seed.Fixtures[0].AwayTeamID != 2 {
		t.Errorf("first tie = %d v %d, want 1 v 2", *seed.Fixtures[0].HomeTeamID, *seed.Fixtures[0].AwayTeamID)
	}
}

func TestSeedBracketWithByes(t *testing.T) {
	seed, err := SeedBracket([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seed.Stage != "Quarter-Finals" {
		t.Fatalf("stage = %q, want Quarter-Finals", seed.Stage)
	}

	var byes, live int
	for _, f := range seed.Fixtures {
		if f.Bye() {
			byes++
		} else {
			live++
		}
	}
	if byes != 3 {
		t.Errorf("got %d byes, want 3", byes)
	}
	if live != 1 {
		t.Errorf("got %d live ties, want 1", live)
	}

	// Top seeds take the byes, the remainder pair in order.
	for i, want := range []int{1, 2, 3} {
		if !seed.Fixtures[i].Bye() || *seed.Fixtures[i].HomeTeamID != want {
			t.Errorf("fixture %d: want bye for team %d, got %+v", i, want, seed.Fixtures[i])
		}
	}
	last := seed.Fixtures[3]
	if *last.HomeTeamID != 4 || *last.AwayTeamID != 5 {
		t.Errorf("live tie = %d v %d, want 4 v 5", *last.HomeTeamID, *last.AwayTeamID)
	}
}

func TestSeedBracketSizes(t *testing.T) {
	tests := []struct {
		teams     int
		wantStage string
		wantByes  int
	}{
		{2, "Final", 0},
		{3, "Semi-Finals", 1},
		{6, "Quarter-Finals", 2},
		{9, "Round of 16", 7},
		{12, "Round of 16", 4},
		{16, "Round of 16", 0},
	}
	for _, tc := range tests {
		ids := make([]int, tc.teams)
		for i := range ids {
			ids[i] = i + 1
		}
		seed, err := SeedBracket(ids)
		if err != nil {
			t.Fatalf("%d teams: unexpected error: %v", tc.teams, err)
		}
		if seed.Stage != tc.wantStage {
			t.Errorf("%d teams: stage = %q, want %q", tc.teams, seed.Stage, tc.wantStage)
		}
		byes := 0
		for _, f := range seed.Fixtures {
			if f.Bye() {
				byes++
			}
		}
		if byes != tc.wantByes {
			t.Errorf("%d teams: got %d byes, want %d", tc.teams, byes, tc.wantByes)
		}
	}
}

func TestSeedBracketTooFewTeams(t *testing.T) {
	if _, err := SeedBracket([]int{7}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

// fiveTeamQuarterFinals persists the seeded round the way the fixture
// service would: byes finished, the live tie in the given status.
func fiveTeamQuarterFinals(liveStatus models.MatchStatus) []models.Match {
	matches := []models.Match{
		{ID: 1, Stage: "Quarter-Finals", HomeTeamID: ip(1), Status: models.MatchFinished},
		{ID: 2, Stage: "Quarter-Finals", HomeTeamID: ip(2), Status: models.MatchFinished},
		{ID: 3, Stage: "Quarter-Finals", HomeTeamID: ip(3), Status: models.MatchFinished},
		{ID: 4, Stage: "Quarter-Finals", HomeTeamID: ip(4), AwayTeamID: ip(5), Status: liveStatus},
	}
	if liveStatus == models.MatchFinished {
		matches[3].HomeScore = ip(2)
		matches[3].AwayScore = ip(1)
	}
	return matches
}

func TestAdvanceBracketNotReady(t *testing.T) {
	state := BracketState{Stage: "Quarter-Finals", Version: 1}
	adv, err := AdvanceBracket(state, fiveTeamQuarterFinals(models.MatchScheduled))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Outcome != AdvanceNotReady {
		t.Fatalf("outcome = %q, want %q", adv.Outcome, AdvanceNotReady)
	}
	if len(adv.Fixtures) != 0 {
		t.Fatalf("not-ready advance produced fixtures: %+v", adv.Fixtures)
	}
	if adv.State != state {
		t.Fatalf("state mutated on gate: %+v", adv.State)
	}
}

func TestAdvanceBracketGeneratesNextRound(t *testing.T) {
	state := BracketState{Stage: "Quarter-Finals", Version: 1}
	adv, err := AdvanceBracket(state, fiveTeamQuarterFinals(models.MatchFinished))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Outcome != AdvanceGenerated {
		t.Fatalf("outcome = %q, want %q", adv.Outcome, AdvanceGenerated)
	}
	if adv.State.Stage != "Semi-Finals" || adv.State.Version != 2 {
		t.Fatalf("state = %+v, want Semi-Finals v2", adv.State)
	}
	if len(adv.Fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(adv.Fixtures))
	}

	// Winners pair in match order: bye winners 1,2,3 then the tie winner 4.
	wantPairs := [][2]int{{1, 2}, {3, 4}}
	for i, f := range adv.Fixtures {
		if f.Stage != "Semi-Finals" {
			t.Errorf("fixture %d stage = %q, want Semi-Finals", i, f.Stage)
		}
		if *f.HomeTeamID != wantPairs[i][0] || *f.AwayTeamID != wantPairs[i][1] {
			t.Errorf("tie %d = %d v %d, want %d v %d", i, *f.HomeTeamID, *f.AwayTeamID, wantPairs[i][0], wantPairs[i][1])
		}
	}
}

func TestAdvanceBracketIdempotent(t *testing.T) {
	matches := fiveTeamQuarterFinals(models.MatchFinished)
	matches = append(matches,
		models.Match{ID: 5, Stage: "Semi-Finals", HomeTeamID: ip(1), AwayTeamID: ip(2), Status: models.MatchScheduled},
		models.Match{ID: 6, Stage: "Semi-Finals", HomeTeamID: ip(3), AwayTeamID: ip(4), Status: models.MatchScheduled},
	)
	adv, err := AdvanceBracket(BracketState{Stage: "Quarter-Finals", Version: 1}, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Outcome != AdvanceUpToDate {
		t.Fatalf("outcome = %q, want %q", adv.Outcome, AdvanceUpToDate)
	}
	if len(adv.Fixtures) != 0 {
		t.Fatalf("repeated advance produced fixtures: %+v", adv.Fixtures)
	}
}

func TestAdvanceBracketUnresolvedDraw(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Stage: "Final", HomeTeamID: ip(1), AwayTeamID: ip(2),
			HomeScore: ip(2), AwayScore: ip(2), Status: models.MatchFinished},
	}
	_, err := AdvanceBracket(BracketState{Stage: "Final", Version: 3}, matches)
	if !errors.Is(err, ErrUnresolvedDraw) {
		t.Fatalf("got %v, want ErrUnresolvedDraw", err)
	}
}

func TestAdvanceBracketFinalDecidedOnPenalties(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Stage: "Semi-Finals", HomeTeamID: ip(1), AwayTeamID: ip(3),
			HomeScore: ip(1), AwayScore: ip(0), Status: models.MatchFinished},
		{ID: 2, Stage: "Semi-Finals", HomeTeamID: ip(2), AwayTeamID: ip(4),
			HomeScore: ip(0), AwayScore: ip(2), Status: models.MatchFinished},
		{ID: 3, Stage: "Final", HomeTeamID: ip(1), AwayTeamID: ip(4),
			HomeScore: ip(2), AwayScore: ip(2), HomePens: ip(3), AwayPens: ip(2),
			Status: models.MatchFinished},
	}
	adv, err := AdvanceBracket(BracketState{Stage: "Final", Version: 3}, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Outcome != AdvanceComplete {
		t.Fatalf("outcome = %q, want %q", adv.Outcome, AdvanceComplete)
	}
	if adv.Podium == nil {
		t.Fatal("complete bracket without podium")
	}
	if adv.Podium.WinnerID != 1 || adv.Podium.RunnerUpID != 4 {
		t.Errorf("podium = winner %d runner-up %d, want 1 and 4", adv.Podium.WinnerID, adv.Podium.RunnerUpID)
	}
	if adv.Podium.ThirdPlaceID == nil || *adv.Podium.ThirdPlaceID != 2 {
		t.Errorf("third place = %v, want 2", adv.Podium.ThirdPlaceID)
	}
}

func TestAdvanceBracketEmptyStage(t *testing.T) {
	adv, err := AdvanceBracket(BracketState{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Outcome != AdvanceNotReady {
		t.Fatalf("outcome = %q, want %q", adv.Outcome, AdvanceNotReady)
	}
}
