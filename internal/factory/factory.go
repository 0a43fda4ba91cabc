package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/christophe-asselin/7-differences/internal/dependencies/clock"
	"github.com/christophe-asselin/7-differences/internal/dependencies/random"
	"github.com/christophe-asselin/7-differences/internal/services/catalog"
	"github.com/christophe-asselin/7-differences/internal/services/diffgen"
	"github.com/christophe-asselin/7-differences/internal/services/duogame"
	"github.com/christophe-asselin/7-differences/internal/services/identify"
	"github.com/christophe-asselin/7-differences/internal/services/ongoing"
	"github.com/christophe-asselin/7-differences/internal/services/score"
	"github.com/christophe-asselin/7-differences/internal/services/user"
	"github.com/christophe-asselin/7-differences/internal/services/validation"
	"github.com/christophe-asselin/7-differences/internal/storage"
	"github.com/christophe-asselin/7-differences/internal/storage/memory"
	redisstorage "github.com/christophe-asselin/7-differences/internal/storage/redis"
	"github.com/christophe-asselin/7-differences/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoreService      *score.Service
	CatalogService    *catalog.Service
	DiffGenService    *diffgen.Service
	ValidationService *validation.Service
	IdentifyService   *identify.Service
	DuoGameService    *duogame.Service
	UserService       *user.Service
	OnGoingService    *ongoing.Service

	// Realtime
	Hub        *ws.Hub
	Dispatcher *ws.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// Create services
	scoreService := score.New(rnd)
	catalogService := catalog.New(store, scoreService, rnd)
	diffgenService := diffgen.New()
	validationService := validation.New()
	identifyService := identify.New()
	sessionStore := duogame.NewSessionStore()
	duoGameService := duogame.New(sessionStore, catalogService, logger)
	userService := user.New(store, clk, logger)
	onGoingService := ongoing.New()

	hub := ws.NewHub(logger)
	dispatcher := ws.NewDispatcher(hub, duoGameService, catalogService, userService, onGoingService, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		ScoreService:      scoreService,
		CatalogService:    catalogService,
		DiffGenService:    diffgenService,
		ValidationService: validationService,
		IdentifyService:   identifyService,
		DuoGameService:    duoGameService,
		UserService:       userService,
		OnGoingService:    onGoingService,
		Hub:               hub,
		Dispatcher:        dispatcher,
	}
}
