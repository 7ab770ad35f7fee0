package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/realtime"
	"github.com/goalpost-app/tournament-platform/repositories"
)

type fakeMatchRepo struct {
	matches          []models.Match
	createBatchCalls int
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	f.matches = append(f.matches, *m)
	return nil
}

func (f *fakeMatchRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	f.createBatchCalls++
	for _, m := range matches {
		f.matches = append(f.matches, *m)
	}
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	for i := range f.matches {
		if f.matches[i].ID == id {
			out := f.matches[i]
			return &out, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateStatus(context.Context, repositories.SQLExecutor, int, models.MatchStatus) error {
	return nil
}

func (f *fakeMatchRepo) UpdateResult(context.Context, repositories.SQLExecutor, *models.Match) error {
	return nil
}

func (f *fakeMatchRepo) UpdateSchedule(context.Context, int, sql.NullTime, *string) error {
	return nil
}

func (f *fakeMatchRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	kept := f.matches[:0]
	deleted := 0
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.matches = kept
	return deleted, nil
}

func (f *fakeMatchRepo) DeleteByStagePrefix(context.Context, repositories.SQLExecutor, int, string) (int, error) {
	return 0, nil
}

func newFixtureServiceFixture(status models.TournamentStatus, paidTeams int) (*fakeMatchRepo, *fakeTournamentRepo, FixtureService) {
	tournamentRepo := &fakeTournamentRepo{tournaments: map[int]*models.Tournament{
		1: {
			ID:          1,
			OrganizerID: 10,
			Status:      status,
			Format:      models.FormatLeague,
			TeamMin:     2,
			TeamMax:     8,
			StartDate:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}}

	regRepo := &fakeRegistrationRepo{registrations: map[int]*models.Registration{}}
	teamRepo := &fakeTeamRepo{teams: map[int]*models.Team{}}
	for i := 1; i <= paidTeams; i++ {
		regRepo.registrations[i] = &models.Registration{
			ID: i, TournamentID: 1, TeamID: i, Status: models.RegistrationPaid,
		}
		teamRepo.teams[i] = &models.Team{ID: i}
	}

	userRepo := &fakeUserRepo{users: map[int]*models.User{10: {ID: 10, Role: models.RoleOrganizer}}}
	matchRepo := &fakeMatchRepo{}

	// The db handle is only touched once generation passes every gate,
	// which these tests never do.
	svc := NewFixtureService(nil, tournamentRepo, regRepo, matchRepo, teamRepo, userRepo,
		realtime.NewHub(discardLogger()), discardLogger())
	return matchRepo, tournamentRepo, svc
}

func TestGenerateSecondCallRefused(t *testing.T) {
	matchRepo, tournamentRepo, svc := newFixtureServiceFixture(models.StatusClosed, 4)
	home, away := 1, 2
	matchRepo.matches = []models.Match{{
		ID: 100, TournamentID: 1, Stage: "Round 1",
		HomeTeamID: &home, AwayTeamID: &away, Status: models.MatchScheduled,
	}}

	if _, err := svc.Generate(context.Background(), 1, 10); !errors.Is(err, ErrFixturesExist) {
		t.Fatalf("err = %v, want ErrFixturesExist", err)
	}
	if matchRepo.createBatchCalls != 0 {
		t.Errorf("createBatchCalls = %d, want 0", matchRepo.createBatchCalls)
	}
	if tournamentRepo.casCalls != 0 {
		t.Errorf("structure CAS calls = %d, want 0", tournamentRepo.casCalls)
	}
	if len(matchRepo.matches) != 1 {
		t.Errorf("match count = %d, want the original 1", len(matchRepo.matches))
	}
}

func TestGenerateRequiresClosedRegistration(t *testing.T) {
	for _, status := range []models.TournamentStatus{models.StatusDraft, models.StatusOpen, models.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			matchRepo, _, svc := newFixtureServiceFixture(status, 4)

			if _, err := svc.Generate(context.Background(), 1, 10); !errors.Is(err, ErrFixturesNotReady) {
				t.Fatalf("err = %v, want ErrFixturesNotReady", err)
			}
			if matchRepo.createBatchCalls != 0 {
				t.Errorf("createBatchCalls = %d, want 0", matchRepo.createBatchCalls)
			}
		})
	}
}

func TestGenerateRequiresMinimumPaidTeams(t *testing.T) {
	matchRepo, _, svc := newFixtureServiceFixture(models.StatusClosed, 1)

	if _, err := svc.Generate(context.Background(), 1, 10); !errors.Is(err, ErrNotEnoughTeams) {
		t.Fatalf("err = %v, want ErrNotEnoughTeams", err)
	}
	if matchRepo.createBatchCalls != 0 {
		t.Errorf("createBatchCalls = %d, want 0", matchRepo.createBatchCalls)
	}
}

func TestGenerateForbiddenForStrangers(t *testing.T) {
	_, _, svc := newFixtureServiceFixture(models.StatusClosed, 4)

	if _, err := svc.Generate(context.Background(), 1, 77); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
