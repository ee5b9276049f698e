package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/middleware"
	"github.com/modelmeter/modelmeter/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/accounts", h.ListAccounts)

	return r
}

// GET /admin/accounts
// Trusted-operator listing. There is no authorization tier above a
// valid bearer token yet; route wiring keeps it behind authentication.
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	balances, err := h.adminService.ListAccounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

// GET /usage
// Per-caller usage summary.
func (h *AdminHandler) Usage(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetIdentity(r.Context())
	if email == "" {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	summary, err := h.adminService.UsageSummary(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":            email,
		"modelsTrained":   summary.ModelsTrained,
		"predictionsMade": summary.PredictionsMade,
	})
}
