package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/paydown/finance-tracker/internal/engine"
)

// GetProjection returns the month-by-month payoff projection for the user's
// loan portfolio. The optional months query parameter bounds the horizon.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid months parameter", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	projection, err := h.svc.BuildProjection(userID, months)
	if err != nil {
		http.Error(w, "failed to build projection", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusOK, projection)
}

// GetStrategy returns avalanche and snowball payoff recommendations for the
// user's monthly overpay budget.
func (h *Handler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	budget := 0.0
	if raw := r.URL.Query().Get("budget"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid budget parameter", http.StatusBadRequest)
			return
		}
		budget = parsed
	}

	strategy, err := h.svc.BuildStrategy(userID, budget)
	if err != nil {
		http.Error(w, "failed to build strategy", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusOK, strategy)
}

// RunWhatIf diffs a hypothetical scenario against the user's baseline
// projection.
func (h *Handler) RunWhatIf(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req engine.WhatIfRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.RunWhatIf(userID, req)
	if err != nil {
		http.Error(w, "failed to run scenario", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// AnalyzeRefinance compares a refinance offer against a loan's current path.
func (h *Handler) AnalyzeRefinance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	loanID, err := strconv.ParseInt(mux.Vars(r)["loanID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid loan id", http.StatusBadRequest)
		return
	}

	var offer engine.RefinanceOffer
	if !h.decodeJSON(w, r, &offer) {
		return
	}
	if offer.TermMonths <= 0 {
		http.Error(w, "term_months must be positive", http.StatusBadRequest)
		return
	}

	analysis, err := h.svc.AnalyzeRefinance(userID, loanID, offer)
	if err != nil {
		http.Error(w, "loan not found", http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, analysis)
}

// ExportData streams the user's accounts and payment history as XML.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	data, err := h.svc.ExportUserData(userID)
	if err != nil {
		http.Error(w, "failed to export data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="finance-export.xml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Errorf("Failed to write export response: %v", err)
	}
}
