package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/goalpost-app/tournament-platform/engine"
	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/realtime"
	"github.com/goalpost-app/tournament-platform/repositories"
)

type FixtureService interface {
	Generate(ctx context.Context, tournamentID, userID int) (*FixtureResult, error)
	AdvanceKnockout(ctx context.Context, tournamentID, userID int) (*AdvanceResult, error)
	StartKnockoutPhase(ctx context.Context, tournamentID, userID int) (*FixtureResult, error)
	RegenerateGroup(ctx context.Context, tournamentID, userID int, group string) (*FixtureResult, error)
	Clear(ctx context.Context, tournamentID, userID int) (int, error)
}

// FixtureResult reports a generation: the persisted matches and how many
// of them are byes.
type FixtureResult struct {
	Matches []models.Match `json:"matches"`
	Byes    int            `json:"byes"`
	Stage   string         `json:"stage,omitempty"`
}

// AdvanceResult reports an advance attempt. Matches is empty unless the
// outcome is "generated".
type AdvanceResult struct {
	Outcome engine.AdvanceOutcome `json:"outcome"`
	Matches []models.Match        `json:"matches,omitempty"`
	Podium  *engine.Podium        `json:"podium,omitempty"`
}

type fixtureService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	teamRepo         repositories.TeamRepository
	userRepo         repositories.UserRepository
	hub              *realtime.Hub
	logger           *slog.Logger
}

func NewFixtureService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		db:               db,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		matchRepo:        matchRepo,
		teamRepo:         teamRepo,
		userRepo:         userRepo,
		hub:              hub,
		logger:           logger,
	}
}

// Generate builds and persists the opening schedule. The tournament must
// be closed for registration and have no matches yet; paid teams enter
// the draw in shuffled order. All inserts and the structure update commit
// atomically.
func (s *fixtureService) Generate(ctx context.Context, tournamentID, userID int) (*FixtureResult, error) {
	tournament, err := s.authorize(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusClosed {
		return nil, ErrFixturesNotReady
	}

	existing, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrFixturesExist
	}

	teamIDs, err := s.paidTeamIDs(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(teamIDs) < tournament.TeamMin {
		return nil, fmt.Errorf("%w: %d paid, minimum %d", ErrNotEnoughTeams, len(teamIDs), tournament.TeamMin)
	}

	rand.Shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})

	result, err := engine.GenerateFixtures(engine.GenerateInput{
		Format:    tournament.Format,
		Structure: tournament.Structure,
		TeamIDs:   teamIDs,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughTeams, err)
		}
		return nil, err
	}

	matches := s.toMatches(tournament, result.Fixtures, tournament.StartDate)

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.CreateBatch(ctx, tx, matches); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStructureCAS(ctx, tx, tournamentID, result.Structure, tournament.StructureVersion)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStructureConflict) {
			return nil, ErrStructureConflict
		}
		return nil, err
	}

	out := collectMatches(matches)
	byes := 0
	for _, m := range out {
		if m.IsBye() {
			byes++
		}
	}
	s.logger.Info("fixtures generated",
		"tournament_id", tournamentID, "format", tournament.Format,
		"matches", len(out), "byes", byes)
	s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventFixturesGenerated, out)

	return &FixtureResult{Matches: out, Byes: byes, Stage: result.Structure.KnockoutStage}, nil
}

// AdvanceKnockout moves the bracket forward one round. Gating states come
// back as outcomes, never errors, so the endpoint is safe to poll. The
// structure pointer and the new round commit together under the version
// check, which makes concurrent advances lose cleanly.
func (s *fixtureService) AdvanceKnockout(ctx context.Context, tournamentID, userID int) (*AdvanceResult, error) {
	tournament, err := s.authorize(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if tournament.Structure.KnockoutStage == "" {
		return nil, ErrKnockoutNotSeeded
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	state := engine.BracketState{
		Stage:   tournament.Structure.KnockoutStage,
		Version: tournament.StructureVersion,
	}
	advance, err := engine.AdvanceBracket(state, matches)
	if err != nil {
		return nil, err
	}

	switch advance.Outcome {
	case engine.AdvanceNotReady, engine.AdvanceUpToDate:
		return &AdvanceResult{Outcome: advance.Outcome}, nil

	case engine.AdvanceComplete:
		if tournament.Status != models.StatusCompleted {
			if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, models.StatusCompleted); err != nil {
				return nil, err
			}
			s.logger.Info("tournament completed", "tournament_id", tournamentID, "winner_team_id", advance.Podium.WinnerID)
			s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventTournamentUpdated, advance.Podium)
		}
		return &AdvanceResult{Outcome: advance.Outcome, Podium: advance.Podium}, nil
	}

	kickoff := s.nextRoundKickoff(tournament, matches)
	created := s.toMatches(tournament, advance.Fixtures, kickoff)

	structure := tournament.Structure
	structure.KnockoutStage = advance.State.Stage

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.CreateBatch(ctx, tx, created); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStructureCAS(ctx, tx, tournamentID, structure, tournament.StructureVersion)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStructureConflict) {
			// Lost the race: the other writer produced this round.
			return &AdvanceResult{Outcome: engine.AdvanceUpToDate}, nil
		}
		return nil, err
	}

	out := collectMatches(created)
	s.logger.Info("knockout round generated", "tournament_id", tournamentID, "stage", advance.State.Stage, "matches", len(out))
	s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventRoundAdvanced, out)

	return &AdvanceResult{Outcome: advance.Outcome, Matches: out}, nil
}

// StartKnockoutPhase seeds the bracket of a combination tournament from
// its finished group or league phase.
func (s *fixtureService) StartKnockoutPhase(ctx context.Context, tournamentID, userID int) (*FixtureResult, error) {
	tournament, err := s.authorize(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatCombination {
		return nil, fmt.Errorf("%w: not a combination tournament", ErrValidationFailed)
	}
	if tournament.Structure.KnockoutStage != "" {
		return nil, ErrFixturesExist
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrFixturesNotReady
	}

	teams, err := s.paidTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var seeds []int
	switch tournament.Structure.CombinationType {
	case models.CombinationGroupsKnockout:
		seeds, err = s.groupQualifiers(teams, matches)
	case models.CombinationLeagueKnockout:
		seeds, err = s.leagueQualifiers(teams, matches)
	default:
		return nil, fmt.Errorf("%w: unknown combination type %q", ErrValidationFailed, tournament.Structure.CombinationType)
	}
	if err != nil {
		return nil, err
	}

	result, outcome, err := engine.SeedKnockoutPhase(tournament.Structure, seeds)
	if err != nil {
		return nil, err
	}
	if outcome == engine.AdvanceUpToDate {
		return nil, ErrFixturesExist
	}

	kickoff := s.nextRoundKickoff(tournament, matches)
	created := s.toMatches(tournament, result.Fixtures, kickoff)

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.CreateBatch(ctx, tx, created); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStructureCAS(ctx, tx, tournamentID, result.Structure, tournament.StructureVersion)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStructureConflict) {
			return nil, ErrStructureConflict
		}
		return nil, err
	}

	out := collectMatches(created)
	s.logger.Info("knockout phase seeded", "tournament_id", tournamentID, "stage", result.Structure.KnockoutStage, "matches", len(out))
	s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventRoundAdvanced, out)

	return &FixtureResult{Matches: out, Stage: result.Structure.KnockoutStage}, nil
}

// RegenerateGroup redraws a single group's schedule without touching
// other groups or stages. Only possible while every match in the group is
// still scheduled and the knockout phase has not been seeded.
func (s *fixtureService) RegenerateGroup(ctx context.Context, tournamentID, userID int, group string) (*FixtureResult, error) {
	tournament, err := s.authorize(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if tournament.Structure.KnockoutStage != "" {
		return nil, fmt.Errorf("%w: knockout phase already seeded", ErrValidationFailed)
	}

	if !strings.HasPrefix(group, "Group ") {
		group = "Group " + group
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	var teamIDs []int
	seen := map[int]bool{}
	kickoff := tournament.StartDate
	found := false
	for _, m := range matches {
		if engine.GroupOf(m.Stage) != group {
			continue
		}
		if m.Status != models.MatchScheduled {
			return nil, fmt.Errorf("%w: group matches already played", ErrValidationFailed)
		}
		if !found || m.KickoffAt.Before(kickoff) {
			kickoff = m.KickoffAt
		}
		found = true
		for _, id := range []*int{m.HomeTeamID, m.AwayTeamID} {
			if id != nil && !seen[*id] {
				seen[*id] = true
				teamIDs = append(teamIDs, *id)
			}
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	rand.Shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})
	fixtures, err := engine.GenerateRoundRobin(teamIDs, group)
	if err != nil {
		return nil, err
	}

	created := s.toMatches(tournament, fixtures, kickoff)

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.matchRepo.DeleteByStagePrefix(ctx, tx, tournamentID, group); err != nil {
			return err
		}
		if err := s.matchRepo.CreateBatch(ctx, tx, created); err != nil {
			return err
		}
		// Version bump serializes the redraw against concurrent writers.
		return s.tournamentRepo.UpdateStructureCAS(ctx, tx, tournamentID, tournament.Structure, tournament.StructureVersion)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStructureConflict) {
			return nil, ErrStructureConflict
		}
		return nil, err
	}

	out := collectMatches(created)
	s.logger.Info("group fixtures regenerated", "tournament_id", tournamentID, "group", group, "matches", len(out))
	s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventFixturesGenerated, out)

	return &FixtureResult{Matches: out, Stage: group}, nil
}

// Clear wipes the whole schedule and resets the bracket pointer. Used
// when an organizer wants a fresh draw before play starts.
func (s *fixtureService) Clear(ctx context.Context, tournamentID, userID int) (int, error) {
	tournament, err := s.authorize(ctx, tournamentID, userID)
	if err != nil {
		return 0, err
	}
	if tournament.Status == models.StatusCompleted {
		return 0, ErrTournamentNotEditable
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return 0, err
	}
	for _, m := range matches {
		if !m.IsBye() && m.Status != models.MatchScheduled {
			return 0, fmt.Errorf("%w: matches already played", ErrValidationFailed)
		}
	}

	var deleted int
	structure := tournament.Structure
	structure.KnockoutStage = ""

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := s.matchRepo.DeleteByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		deleted = n
		return s.tournamentRepo.UpdateStructureCAS(ctx, tx, tournamentID, structure, tournament.StructureVersion)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStructureConflict) {
			return 0, ErrStructureConflict
		}
		return 0, err
	}

	s.logger.Info("fixtures cleared", "tournament_id", tournamentID, "deleted", deleted)
	s.hub.BroadcastToRoom(roomID(tournamentID), realtime.EventFixturesGenerated, []models.Match{})
	return deleted, nil
}

func (s *fixtureService) groupQualifiers(teams []models.Team, matches []models.Match) ([]int, error) {
	groups := groupsFromMatches(matches)
	if len(groups) == 0 {
		return nil, ErrFixturesNotReady
	}
	for _, m := range matches {
		if engine.GroupOf(m.Stage) != "" && m.Status != models.MatchFinished {
			return nil, ErrGroupPhaseNotOver
		}
	}
	standings := engine.GroupStandings(groups, teams, matches)
	return engine.ComposeQualifiers(standings)
}

func (s *fixtureService) leagueQualifiers(teams []models.Team, matches []models.Match) ([]int, error) {
	for _, m := range matches {
		if m.Status != models.MatchFinished {
			return nil, ErrLeaguePhaseNotOver
		}
	}
	table := engine.ComputeStandings(teams, matches)
	n := engine.LeagueQualifiers(len(table))
	if n > len(table) {
		n = len(table)
	}
	seeds := make([]int, 0, n)
	for _, row := range table[:n] {
		seeds = append(seeds, row.TeamID)
	}
	return seeds, nil
}

// groupsFromMatches reconstructs the group composition from stage labels,
// members in first-seen order.
func groupsFromMatches(matches []models.Match) []engine.Group {
	order := []string{}
	members := map[string][]int{}
	seen := map[string]map[int]bool{}

	for _, m := range matches {
		name := engine.GroupOf(m.Stage)
		if name == "" {
			continue
		}
		if _, ok := members[name]; !ok {
			order = append(order, name)
			members[name] = nil
			seen[name] = map[int]bool{}
		}
		for _, id := range []*int{m.HomeTeamID, m.AwayTeamID} {
			if id != nil && !seen[name][*id] {
				seen[name][*id] = true
				members[name] = append(members[name], *id)
			}
		}
	}

	groups := make([]engine.Group, 0, len(order))
	for _, name := range order {
		groups = append(groups, engine.Group{Name: name, TeamIDs: members[name]})
	}
	return groups
}

// toMatches converts generated fixtures into match rows. Byes are stored
// finished so they never block round gating; everything else starts
// scheduled. Round r kicks off r-1 days after the base date.
func (s *fixtureService) toMatches(t *models.Tournament, fixtures []engine.Fixture, base time.Time) []*models.Match {
	matches := make([]*models.Match, 0, len(fixtures))
	for _, f := range fixtures {
		m := &models.Match{
			TournamentID: t.ID,
			Stage:        f.Stage,
			HomeTeamID:   f.HomeTeamID,
			AwayTeamID:   f.AwayTeamID,
			KickoffAt:    base.AddDate(0, 0, f.Round-1),
			Status:       models.MatchScheduled,
		}
		if f.Bye() {
			m.Status = models.MatchFinished
		}
		matches = append(matches, m)
	}
	return matches
}

// nextRoundKickoff schedules a new knockout round one day after the
// latest existing match.
func (s *fixtureService) nextRoundKickoff(t *models.Tournament, matches []models.Match) time.Time {
	latest := t.StartDate
	for _, m := range matches {
		if m.KickoffAt.After(latest) {
			latest = m.KickoffAt
		}
	}
	return latest.AddDate(0, 0, 1)
}

func (s *fixtureService) paidTeamIDs(ctx context.Context, tournamentID int) ([]int, error) {
	registrations, err := s.registrationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(registrations))
	for _, reg := range registrations {
		if reg.Status == models.RegistrationPaid {
			ids = append(ids, reg.TeamID)
		}
	}
	return ids, nil
}

func (s *fixtureService) paidTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	ids, err := s.paidTeamIDs(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.teamRepo.GetByIDs(ctx, ids)
}

func (s *fixtureService) authorize(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.OrganizerID == userID {
		return t, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return t, nil
	}
	return nil, ErrForbidden
}

func collectMatches(matches []*models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, *m)
	}
	return out
}
