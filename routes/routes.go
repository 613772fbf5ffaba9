package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/lanoooo/padel-club/handlers"
	"github.com/lanoooo/padel-club/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	bookingHandler *handlers.BookingHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	// Свободная сетка кортов видна без авторизации.
	router.Get("/availability", bookingHandler.ListAvailability)

	router.Route("/reservations", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Get("/", bookingHandler.ListReservations)
		r.Post("/", bookingHandler.Reserve)
		r.Delete("/{reservationID}", bookingHandler.Cancel)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров.
		r.Get("/", tournamentHandler.List)
		r.Get("/saturdays", tournamentHandler.ListSaturdays)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/teams", tournamentHandler.ListTeams)
		r.Get("/{tournamentID}/matches", matchHandler.ListMatches)

		// Заявка команды от любого авторизованного игрока.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Post("/{tournamentID}/teams", tournamentHandler.RegisterTeam)
		})

		// Управление турнирами только для администраторов.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireAdmin)

			r.Post("/", tournamentHandler.Open)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Delete("/{tournamentID}/teams/{teamID}", tournamentHandler.DeleteTeam)
			r.Post("/{tournamentID}/fixture", matchHandler.GenerateFixture)
			r.Put("/{tournamentID}/matches/{matchID}/score", matchHandler.RecordScore)
			r.Post("/{tournamentID}/poster", tournamentHandler.UploadPoster)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/availability/{date}", webSocketHandler.ServeAvailability)
		r.Get("/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
	})
}
