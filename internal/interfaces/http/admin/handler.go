package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	formService     adminapp.FormService
	responseService adminapp.ResponseService
	statsService    adminapp.StatsService
	accountService  adminapp.AccountService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	FormService     adminapp.FormService
	ResponseService adminapp.ResponseService
	StatsService    adminapp.StatsService
	AccountService  adminapp.AccountService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:          cfg.Logger,
		formService:     cfg.FormService,
		responseService: cfg.ResponseService,
		statsService:    cfg.StatsService,
		accountService:  cfg.AccountService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.signupHandler())
	r.Get("/forms", h.formListHandler())
	r.Post("/forms", h.formCreateHandler())
	r.Get("/forms/{id}", h.formDetailHandler())
	r.Put("/forms/{id}", h.formUpdateHandler())
	r.Get("/forms/{id}/responses", h.responseListHandler())
	r.Get("/forms/{id}/stats", h.formStatsHandler())
	r.Patch("/responses/{id}", h.responseTriageHandler())
}
