package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

// NewRouter mounts the read API. Tracing wraps the router from outside so the
// server span exists before any chi middleware runs.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("httpapi")

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		routeSpanName,
		RequestLogging(logger),
		CORS(corsAllowedOrigins),
		Recover(logger),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(r.Context(), w, usecase.ErrNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorBody{Error: "Método no permitido"})
	})

	r.Get("/healthz", handler.Healthz)
	r.Route("/api", func(api chi.Router) {
		api.Get("/historial", handler.ListHistory)
		api.Get("/equipos", handler.ListTeams)
		api.Get("/equipo/{roleID}", handler.GetTeamRoster)
		api.Get("/fichajes", handler.ListOffers)
		api.Get("/fichajes/{teamRoleID}", handler.ListTeamOffers)
	})

	return RequestTracing(r)
}

func NewServer(addr string, router http.Handler, readTimeout, writeTimeout time.Duration) (*http.Server, error) {
	if addr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}, nil
}
