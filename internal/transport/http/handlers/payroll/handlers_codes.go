package payrollhandler

import (
	"encoding/json"
	"log"
	"net/http"

	"wfm/internal/domain/payroll"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type payCodeListResponse struct {
	PayCodes   []payroll.PayCode `json:"pay_codes"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

type payCodeDetail struct {
	payroll.PayCode
	UsageCount int `json:"usage_count"`
}

func (h *Handler) handleListPayCodes(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	codes, total, err := h.Service.ListPayCodes(r.Context(),
		r.URL.Query().Get("type"), r.URL.Query().Get("status"), page.PerPage, page.Offset())
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, payCodeListResponse{
		PayCodes:   codes,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPayCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "codeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid pay code id", middleware.GetRequestID(r.Context()))
		return
	}
	code, usage, err := h.Service.GetPayCode(r.Context(), id)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, payCodeDetail{PayCode: code, UsageCount: usage}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePayCode(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var input payroll.CreatePayCodeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	code, err := h.Service.CreatePayCode(r.Context(), input, user.UserID)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.code.create", "pay_code", code.ID, middleware.GetRequestID(r.Context()), nil, code); err != nil {
		log.Printf("audit payroll.code.create failed: %v", err)
	}
	api.Created(w, code, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePayCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "codeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid pay code id", middleware.GetRequestID(r.Context()))
		return
	}

	var input payroll.UpdatePayCodeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	code, err := h.Service.UpdatePayCode(r.Context(), id, input)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, code, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePayCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "codeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid pay code id", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.DeletePayCode(r.Context(), id); err != nil {
		failFromError(w, r, err)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.code.delete", "pay_code", id, middleware.GetRequestID(r.Context()), nil, nil); err != nil {
		log.Printf("audit payroll.code.delete failed: %v", err)
	}
	api.SuccessMessage(w, nil, "Pay code deleted successfully", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTogglePayCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "codeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid pay code id", middleware.GetRequestID(r.Context()))
		return
	}
	code, err := h.Service.TogglePayCode(r.Context(), id)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	state := "deactivated"
	if code.IsActive {
		state = "activated"
	}
	api.SuccessMessage(w, map[string]bool{"is_active": code.IsActive},
		"Pay code \""+code.Code+"\" "+state, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAbsenceCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Service.AbsenceCodes(r.Context())
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, codes, middleware.GetRequestID(r.Context()))
}
