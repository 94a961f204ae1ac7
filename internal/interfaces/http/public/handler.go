package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cocosurvey/cocosurvey-services/api/internal/analysis"
	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	publicapp "github.com/cocosurvey/cocosurvey-services/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger              *log.Logger
	formQueries         publicapp.FormQueryService
	responseCommands    publicapp.ResponseCommandService
	accounts            adminapp.AccountService
	gateway             *analysis.Gateway
	httpClient          *http.Client
	failedNotifications *mongo.Collection
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger              *log.Logger
	FormQueries         publicapp.FormQueryService
	ResponseCommands    publicapp.ResponseCommandService
	Accounts            adminapp.AccountService
	Gateway             *analysis.Gateway
	HTTPClient          *http.Client
	FailedNotifications *mongo.Collection
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:              cfg.Logger,
		formQueries:         cfg.FormQueries,
		responseCommands:    cfg.ResponseCommands,
		accounts:            cfg.Accounts,
		gateway:             cfg.Gateway,
		httpClient:          cfg.HTTPClient,
		failedNotifications: cfg.FailedNotifications,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/surveys/{shareId}", h.formByShareHandler())
	r.Post("/surveys/{shareId}/responses", h.submitResponseHandler())
	r.Post("/api/ai/analyze", h.analyzeHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}
