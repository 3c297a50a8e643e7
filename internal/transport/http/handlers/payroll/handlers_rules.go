package payrollhandler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/payroll"
	"wfm/internal/transport/http/api"
	"wfm/internal/transport/http/middleware"
	"wfm/internal/transport/http/shared"
)

type ruleListResponse struct {
	PayRules   []payroll.PayRule `json:"pay_rules"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	rules, total, err := h.Service.ListRules(r.Context(), r.URL.Query().Get("status"), page.PerPage, page.Offset())
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, ruleListResponse{
		PayRules:   rules,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "ruleID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid rule id", middleware.GetRequestID(r.Context()))
		return
	}
	rule, err := h.Service.GetRule(r.Context(), id)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	api.Success(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var input payroll.CreateRuleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rule, err := h.Service.CreateRule(r.Context(), input, user.UserID)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.rule.create", "pay_rule", rule.ID, middleware.GetRequestID(r.Context()), nil, rule); err != nil {
		log.Printf("audit payroll.rule.create failed: %v", err)
	}
	api.Created(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "ruleID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid rule id", middleware.GetRequestID(r.Context()))
		return
	}

	var input payroll.UpdateRuleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rule, err := h.Service.UpdateRule(r.Context(), id, input)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.rule.update", "pay_rule", id, middleware.GetRequestID(r.Context()), nil, rule); err != nil {
		log.Printf("audit payroll.rule.update failed: %v", err)
	}
	api.Success(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "ruleID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid rule id", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.DeleteRule(r.Context(), id); err != nil {
		failFromError(w, r, err)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.rule.delete", "pay_rule", id, middleware.GetRequestID(r.Context()), nil, nil); err != nil {
		log.Printf("audit payroll.rule.delete failed: %v", err)
	}
	api.SuccessMessage(w, nil, "Pay rule deleted successfully", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "ruleID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid rule id", middleware.GetRequestID(r.Context()))
		return
	}
	rule, err := h.Service.ToggleRule(r.Context(), id)
	if err != nil {
		failFromError(w, r, err)
		return
	}
	state := "deactivated"
	if rule.IsActive {
		state = "activated"
	}
	api.SuccessMessage(w, map[string]bool{"is_active": rule.IsActive},
		"Rule \""+rule.Name+"\" "+state, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReorderRules(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rules []payroll.RuleOrder `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.ReorderRules(r.Context(), payload.Rules); err != nil {
		failFromError(w, r, err)
		return
	}
	api.SuccessMessage(w, nil, "Rule priorities updated successfully", middleware.GetRequestID(r.Context()))
}
