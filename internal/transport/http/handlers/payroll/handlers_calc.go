package payrollhandler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"wfm/internal/domain/auth"
	"wfm/internal/domain/payroll"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type calculatePayload struct {
	PayPeriodStart string  `json:"pay_period_start"`
	PayPeriodEnd   string  `json:"pay_period_end"`
	EmployeeIDs    []int64 `json:"employee_ids,omitempty"`
	SaveResults    bool    `json:"save_results"`
}

type calculationListResponse struct {
	Calculations []payroll.Calculation `json:"calculations"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"per_page"`
	TotalPages   int                   `json:"total_pages"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	start, err := shared.ParseDate(payload.PayPeriodStart)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "pay_period_start must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(payload.PayPeriodEnd)
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "pay_period_end must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.Calculate(r.Context(), payroll.CalculateRequest{
		PeriodStart:  start,
		PeriodEnd:    end,
		EmployeeIDs:  payload.EmployeeIDs,
		SaveResults:  payload.SaveResults,
		CalculatedBy: user.UserID,
		Privileged:   auth.IsPrivileged(user),
	})
	if err != nil {
		failFromError(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.calculate", "pay_calculation", 0, middleware.GetRequestID(r.Context()), nil, map[string]any{
		"pay_period_start": payload.PayPeriodStart,
		"pay_period_end":   payload.PayPeriodEnd,
		"employee_count":   result.EmployeeCount,
		"saved":            payload.SaveResults,
	}); err != nil {
		log.Printf("audit payroll.calculate failed: %v", err)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCalculations(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)

	var employeeID int64
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee_id must be a positive integer", middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = parsed
	}

	calculations, total, err := h.Service.ListCalculations(r.Context(), employeeID, page.PerPage, page.Offset())
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, calculationListResponse{
		Calculations: calculations,
		Total:        total,
		Page:         page.Page,
		PerPage:      page.PerPage,
		TotalPages:   page.TotalPages(total),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "calculationID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid calculation id", middleware.GetRequestID(r.Context()))
		return
	}

	filePath, err := h.Service.GenerateStatementPDF(r.Context(), id)
	if err != nil {
		failFromError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}
