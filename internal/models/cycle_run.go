package models

import "time"

// Account kinds a cycle run can apply to.
const (
	AccountKindCard = "card"
	AccountKindLoan = "loan"
)

// CycleRun is the idempotency and audit record of one applied batch of
// monthly cycles. The (kind, account, cycle key) triple is unique: the
// monthly job can run twice without applying the same cycles twice.
type CycleRun struct {
	ID              int64     `json:"id"`
	AccountKind     string    `json:"account_kind"`
	AccountID       int64     `json:"account_id"`
	CycleKey        string    `json:"cycle_key"`
	Cycles          int       `json:"cycles"`
	InterestAccrued float64   `json:"interest_accrued"`
	PaymentsApplied float64   `json:"payments_applied"`
	NewBalance      float64   `json:"new_balance"`
	CreatedAt       time.Time `json:"created_at"`
}
