package payrollhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/audit"
	"wfm/internal/domain/auth"
	"wfm/internal/domain/payroll"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, auditlog *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditlog}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		read := middleware.RequireRole(auth.PayrollReadRoles...)
		manage := middleware.RequireRole(auth.PayrollManageRoles...)

		r.With(read).Get("/pay-rules", h.handleListRules)
		r.With(manage).Post("/pay-rules", h.handleCreateRule)
		r.With(manage).Post("/pay-rules/reorder", h.handleReorderRules)
		r.With(read).Get("/pay-rules/{ruleID}", h.handleGetRule)
		r.With(manage).Patch("/pay-rules/{ruleID}", h.handleUpdateRule)
		r.With(manage).Delete("/pay-rules/{ruleID}", h.handleDeleteRule)
		r.With(manage).Post("/pay-rules/{ruleID}/toggle", h.handleToggleRule)

		r.With(read).Get("/pay-codes", h.handleListPayCodes)
		r.With(manage).Post("/pay-codes", h.handleCreatePayCode)
		r.With(middleware.RequireRole(auth.AbsenceCodeRoles...)).Get("/pay-codes/list/absence", h.handleAbsenceCodes)
		r.With(read).Get("/pay-codes/{codeID}", h.handleGetPayCode)
		r.With(manage).Patch("/pay-codes/{codeID}", h.handleUpdatePayCode)
		r.With(manage).Delete("/pay-codes/{codeID}", h.handleDeletePayCode)
		r.With(manage).Post("/pay-codes/{codeID}/toggle", h.handleTogglePayCode)

		r.With(manage).Post("/calculate", h.handleCalculate)
		r.With(read).Get("/calculations", h.handleListCalculations)
		r.With(read).Get("/calculations/{calculationID}/statement", h.handleStatement)
	})
}

// failFromError maps the domain error taxonomy onto HTTP statuses.
func failFromError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrNotAuthorized):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, payroll.ErrRuleNotFound),
		errors.Is(err, payroll.ErrPayCodeNotFound),
		errors.Is(err, payroll.ErrCalculationNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrNoTimeEntries),
		errors.Is(err, payroll.ErrNoConditions),
		errors.Is(err, payroll.ErrNoActions),
		errors.Is(err, payroll.ErrRuleNameRequired),
		errors.Is(err, payroll.ErrDuplicateRuleName),
		errors.Is(err, payroll.ErrRuleInUse),
		errors.Is(err, payroll.ErrPayCodeRequired),
		errors.Is(err, payroll.ErrDuplicatePayCode),
		errors.Is(err, payroll.ErrPayCodeInUse):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", requestID)
	}
}
