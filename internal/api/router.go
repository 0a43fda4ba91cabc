package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/christophe-asselin/7-differences/internal/api/handler"
	"github.com/christophe-asselin/7-differences/internal/api/middleware"
	"github.com/christophe-asselin/7-differences/internal/services/catalog"
	"github.com/christophe-asselin/7-differences/internal/services/diffgen"
	"github.com/christophe-asselin/7-differences/internal/services/identify"
	"github.com/christophe-asselin/7-differences/internal/services/validation"
	"github.com/christophe-asselin/7-differences/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Catalog    *catalog.Service
	Identify   *identify.Service
	DiffGen    *diffgen.Service
	Validation *validation.Service
	Hub        *ws.Hub
	Dispatcher *ws.Dispatcher
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	identificationHandler := handler.NewIdentificationHandler(cfg.Catalog, cfg.Identify)
	gamesHandler := handler.NewGamesHandler(cfg.Catalog, cfg.DiffGen, cfg.Validation)
	imagesHandler := handler.NewImagesHandler(cfg.DiffGen, cfg.Validation)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identification routes
	api.HandleFunc("/identification/simple/{gameID}/{x}/{y}", identificationHandler.Simple).Methods(http.MethodPost)
	api.HandleFunc("/identification/free/{gameID}/{index}", identificationHandler.Free).Methods(http.MethodGet)

	// Image validation
	api.HandleFunc("/images/validate", imagesHandler.Validate).Methods(http.MethodPost)

	// Game catalog routes
	api.HandleFunc("/games", gamesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/simple", gamesHandler.CreateSimple).Methods(http.MethodPost)
	api.HandleFunc("/games/free", gamesHandler.CreateFree).Methods(http.MethodPost)
	api.HandleFunc("/games/simple/{gameID}", gamesHandler.GetSimple).Methods(http.MethodGet)
	api.HandleFunc("/games/free/{gameID}", gamesHandler.GetFree).Methods(http.MethodGet)
	api.HandleFunc("/games/{gameType}/{gameID}", gamesHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{gameType}/{gameID}/reset-scores", gamesHandler.ResetScores).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint. The upgrade bypasses the API middleware chain so
	// the hijacked connection is not held by the request logger.
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.Serve(cfg.Hub, cfg.Dispatcher, w, req)
	}).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
