package models

import "time"

// Loan event types.
const (
	LoanEventPayment = "payment"
	LoanEventCycle   = "cycle"
)

// LoanEvent is one append-only history record for a loan: a user-recorded
// payment or a server-applied cycle. Payments feed consistency scoring.
type LoanEvent struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	LoanID     int64     `json:"loan_id"`
	Type       string    `json:"type"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
