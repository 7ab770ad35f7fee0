package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/repositories"
)

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
	activeCount   int
	createErr     error
	nextID        int
}

func (f *fakeRegistrationRepo) Create(_ context.Context, r *models.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = f.nextID
	if f.registrations == nil {
		f.registrations = map[int]*models.Registration{}
	}
	f.registrations[r.ID] = r
	return nil
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	r, ok := f.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeRegistrationRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range f.registrations {
		if r.TournamentID == tournamentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) CountActiveByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) (int, error) {
	return f.activeCount, nil
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.RegistrationStatus, paidAmount *float64) error {
	r, ok := f.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	r.Status = status
	if paidAmount != nil {
		r.PaidAmount = *paidAmount
	}
	return nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, id int) error {
	delete(f.registrations, id)
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	casCalls    int
}

func (f *fakeTournamentRepo) Create(context.Context, *models.Tournament) error { return nil }

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := *t
	return &out, nil
}

func (f *fakeTournamentRepo) List(context.Context, repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return nil, nil
}
func (f *fakeTournamentRepo) Update(context.Context, *models.Tournament) error { return nil }
func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}
func (f *fakeTournamentRepo) UpdateStructureCAS(context.Context, repositories.SQLExecutor, int, models.TournamentStructure, int) error {
	f.casCalls++
	return nil
}
func (f *fakeTournamentRepo) UpdateLogoKey(context.Context, int, *string) error { return nil }
func (f *fakeTournamentRepo) Delete(context.Context, int) error                 { return nil }

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func (f *fakeTeamRepo) Create(context.Context, *models.Team) error { return nil }
func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return t, nil
}
func (f *fakeTeamRepo) GetByIDs(context.Context, []int) ([]models.Team, error) { return nil, nil }
func (f *fakeTeamRepo) List(context.Context, int, int) ([]models.Team, error)  { return nil, nil }
func (f *fakeTeamRepo) Update(context.Context, *models.Team) error             { return nil }
func (f *fakeTeamRepo) UpdateCrestKey(context.Context, int, *string) error     { return nil }
func (f *fakeTeamRepo) Delete(context.Context, int) error                      { return nil }

type fakeUserRepo struct {
	users map[int]*models.User
}

func (f *fakeUserRepo) Create(context.Context, *models.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (f *fakeUserRepo) Update(context.Context, *models.User) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistrationFixture() (*fakeRegistrationRepo, *fakeTournamentRepo, *fakeTeamRepo, *fakeUserRepo, RegistrationService) {
	deadline := time.Now().Add(24 * time.Hour)
	regRepo := &fakeRegistrationRepo{registrations: map[int]*models.Registration{}}
	tournamentRepo := &fakeTournamentRepo{tournaments: map[int]*models.Tournament{
		1: {
			ID:          1,
			OrganizerID: 10,
			Status:      models.StatusOpen,
			TeamMin:     2,
			TeamMax:     8,
			RegDeadline: &deadline,
		},
	}}
	teamRepo := &fakeTeamRepo{teams: map[int]*models.Team{5: {ID: 5, Name: "Rovers"}}}
	userRepo := &fakeUserRepo{users: map[int]*models.User{
		10: {ID: 10, Role: models.RoleOrganizer},
		99: {ID: 99, Role: models.RoleAdmin},
	}}
	svc := NewRegistrationService(regRepo, tournamentRepo, teamRepo, userRepo, discardLogger())
	return regRepo, tournamentRepo, teamRepo, userRepo, svc
}

func TestRegisterCreatesPendingRegistration(t *testing.T) {
	_, _, _, _, svc := newRegistrationFixture()

	reg, err := svc.Register(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Status != models.RegistrationPending {
		t.Errorf("status = %q, want %q", reg.Status, models.RegistrationPending)
	}
	if reg.TournamentID != 1 || reg.TeamID != 5 {
		t.Errorf("registration refs = (%d, %d), want (1, 5)", reg.TournamentID, reg.TeamID)
	}
}

func TestRegisterRejectsClosedTournament(t *testing.T) {
	_, tournamentRepo, _, _, svc := newRegistrationFixture()
	tournamentRepo.tournaments[1].Status = models.StatusClosed

	if _, err := svc.Register(context.Background(), 1, 5); !errors.Is(err, ErrRegistrationNotOpen) {
		t.Errorf("err = %v, want ErrRegistrationNotOpen", err)
	}
}

func TestRegisterRejectsPastDeadline(t *testing.T) {
	_, tournamentRepo, _, _, svc := newRegistrationFixture()
	past := time.Now().Add(-time.Hour)
	tournamentRepo.tournaments[1].RegDeadline = &past

	if _, err := svc.Register(context.Background(), 1, 5); !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestRegisterRejectsFullTournament(t *testing.T) {
	regRepo, _, _, _, svc := newRegistrationFixture()
	regRepo.activeCount = 8

	if _, err := svc.Register(context.Background(), 1, 5); !errors.Is(err, ErrTournamentFull) {
		t.Errorf("err = %v, want ErrTournamentFull", err)
	}
}

func TestRegisterMapsDuplicateToConflict(t *testing.T) {
	regRepo, _, _, _, svc := newRegistrationFixture()
	regRepo.createErr = repositories.ErrRegistrationDuplicate

	if _, err := svc.Register(context.Background(), 1, 5); !errors.Is(err, ErrRegistrationConflict) {
		t.Errorf("err = %v, want ErrRegistrationConflict", err)
	}
}

func TestRegisterUnknownTeam(t *testing.T) {
	_, _, _, _, svc := newRegistrationFixture()

	if _, err := svc.Register(context.Background(), 1, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkPaidRequiresOrganizerOrAdmin(t *testing.T) {
	_, _, _, _, svc := newRegistrationFixture()
	reg, err := svc.Register(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.MarkPaid(context.Background(), reg.ID, 77, 50); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: err = %v, want ErrForbidden", err)
	}

	paid, err := svc.MarkPaid(context.Background(), reg.ID, 10, 50)
	if err != nil {
		t.Fatalf("organizer MarkPaid: %v", err)
	}
	if paid.Status != models.RegistrationPaid || paid.PaidAmount != 50 {
		t.Errorf("paid = %+v, want status paid, amount 50", paid)
	}

	// Admins bypass the organizer check.
	if _, err := svc.MarkPaid(context.Background(), reg.ID, 99, 50); err != nil {
		t.Errorf("admin MarkPaid: %v", err)
	}
}

func TestCancelRejectedAfterRegistrationWindow(t *testing.T) {
	_, tournamentRepo, _, _, svc := newRegistrationFixture()
	reg, err := svc.Register(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tournamentRepo.tournaments[1].Status = models.StatusClosed
	if err := svc.Cancel(context.Background(), reg.ID, 10); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}

	tournamentRepo.tournaments[1].Status = models.StatusOpen
	if err := svc.Cancel(context.Background(), reg.ID, 10); err != nil {
		t.Errorf("Cancel: %v", err)
	}
}
