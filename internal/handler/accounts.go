package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/paydown/finance-tracker/internal/models"
)

// CreateCardAccount records a new tracked card for the authenticated user
func (h *Handler) CreateCardAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var card models.CardAccount
	if !h.decodeJSON(w, r, &card) {
		return
	}
	if card.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.CreateCardAccount(userID, &card); err != nil {
		http.Error(w, "failed to create card account", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusCreated, card)
}

// CreateLoan records a new tracked loan for the authenticated user
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var loan models.Loan
	if !h.decodeJSON(w, r, &loan) {
		return
	}
	if loan.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.CreateLoan(userID, &loan); err != nil {
		http.Error(w, "failed to create loan", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusCreated, loan)
}

// RecordLoanPayment appends a payment to a loan's history
func (h *Handler) RecordLoanPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	loanID, err := strconv.ParseInt(mux.Vars(r)["loanID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid loan id", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount     float64   `json:"amount"`
		OccurredAt time.Time `json:"occurred_at"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	event, err := h.svc.RecordLoanPayment(userID, loanID, req.Amount, req.OccurredAt)
	if err != nil {
		http.Error(w, "failed to record payment", http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusCreated, event)
}
