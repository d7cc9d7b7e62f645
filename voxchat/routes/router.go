package routes

import (
	"net/http"
	"time"

	"voxchat/voxchat/controllers"
	"voxchat/voxchat/middlewares"
	"voxchat/voxchat/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const authTimeout = 30 * time.Second

type Dependencies struct {
	Auth       *controllers.AuthController
	Chat       *controllers.ChatController
	Speech     *controllers.SpeechController
	Health     *controllers.HealthController
	Verifier   middlewares.TokenVerifier
	CORSOrigin string
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/health", HealthRoutes(deps.Health))
	r.Route("/api", func(api chi.Router) {
		// long-lived; kept outside the request timeout
		api.Get("/chat/ws", ChatSocketHandler(deps.Chat, deps.Verifier, deps.CORSOrigin))

		api.Group(func(gr chi.Router) {
			gr.Use(middleware.Timeout(authTimeout))
			AuthRoutes(gr, deps.Auth)
		})
		// chat and speech bound each provider call with their own
		// configured timeouts
		ChatRoutes(api, deps.Chat, deps.Verifier)
		SpeechRoutes(api, deps.Speech, deps.Verifier)
	})
	return r
}
