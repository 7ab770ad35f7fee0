package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/goalpost-app/tournament-platform/handlers"
	"github.com/goalpost-app/tournament-platform/middleware"
	"github.com/goalpost-app/tournament-platform/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Team         *handlers.TeamHandler
	Registration *handlers.RegistrationHandler
	Fixture      *handlers.FixtureHandler
	Match        *handlers.MatchHandler
	Table        *handlers.TableHandler
	WebSocket    *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, authenticator *middleware.Authenticator, corsOrigins string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(corsOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/docs/openapi.json", openAPIDocument)
	router.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.json"),
	))

	router.Post("/auth/signup", h.Auth.Register)
	router.Post("/auth/signin", h.Auth.Login)
	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticate)
		r.Get("/auth/me", h.Auth.Me)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Public read access for spectators.
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/registrations", h.Registration.List)
		r.Get("/{tournamentID}/standings", h.Table.Standings)
		r.Get("/{tournamentID}/leaderboards", h.Table.Leaderboards)
		r.Get("/{tournamentID}/awards", h.Table.Awards)
		r.Get("/{tournamentID}/ws", h.WebSocket.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}", h.Tournament.Update)
			r.Patch("/{tournamentID}/status", h.Tournament.ChangeStatus)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
			r.Delete("/{tournamentID}", h.Tournament.Delete)

			r.Post("/{tournamentID}/registrations", h.Registration.Register)

			r.Post("/{tournamentID}/fixtures", h.Fixture.Generate)
			r.Post("/{tournamentID}/fixtures/advance", h.Fixture.Advance)
			r.Post("/{tournamentID}/fixtures/knockout", h.Fixture.StartKnockoutPhase)
			r.Post("/{tournamentID}/fixtures/groups/{group}", h.Fixture.RegenerateGroup)
			r.Delete("/{tournamentID}/fixtures", h.Fixture.Clear)

			r.Put("/{tournamentID}/mvp", h.Table.SelectMVP)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/{tournamentID}/simulate", h.Fixture.SimulateRound)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.List)
		r.Get("/{teamID}", h.Team.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", h.Team.Create)
			r.Put("/{teamID}", h.Team.Update)
			r.Post("/{teamID}/crest", h.Team.UploadCrest)
			r.Delete("/{teamID}", h.Team.Delete)
			r.Post("/{teamID}/players", h.Team.AddPlayer)
			r.Delete("/{teamID}/players/{playerID}", h.Team.RemovePlayer)
		})
	})

	router.Route("/registrations", func(r chi.Router) {
		r.Use(authenticator.Authenticate)
		r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

		r.Patch("/{registrationID}/paid", h.Registration.MarkPaid)
		r.Delete("/{registrationID}", h.Registration.Cancel)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/{matchID}/start", h.Match.Start)
			r.Put("/{matchID}/result", h.Match.RecordResult)
			r.Patch("/{matchID}/schedule", h.Match.Reschedule)
		})
	})

	return router
}

func openAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPISpec)
}
