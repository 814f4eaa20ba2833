package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/paydown/finance-tracker/internal/models"
)

// ErrCycleAlreadyApplied is returned when a cycle run's idempotency key has
// already been recorded for the account.
var ErrCycleAlreadyApplied = errors.New("cycle already applied")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO tracker.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM tracker.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM tracker.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateCardAccount creates a new tracked card for a user
func (r *Repository) CreateCardAccount(card *models.CardAccount) error {
	query := `
		INSERT INTO tracker.card_accounts (
			user_id, name, used_limit, statement_balance, pending_charges,
			spend_per_month, minimum_payment, minimum_payment_type,
			minimum_payment_percent, extra_payment, interest_rate, due_day,
			last_cycle_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		card.UserID, card.Name, card.UsedLimit, nullableFloat(card.StatementBalance),
		card.PendingCharges, card.SpendPerMonth, card.MinimumPayment,
		card.MinimumPaymentType, card.MinimumPaymentPercent, card.ExtraPayment,
		card.InterestRate, card.DueDay, card.LastCycleAt).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card account: %w", err)
	}
	return nil
}

// ListCardAccounts retrieves every tracked card, optionally filtered by user.
// A zero userID means all users (used by the monthly-cycle job).
func (r *Repository) ListCardAccounts(userID int64) ([]models.CardAccount, error) {
	query := `
		SELECT id, user_id, name, used_limit, statement_balance, pending_charges,
		       spend_per_month, minimum_payment, minimum_payment_type,
		       minimum_payment_percent, extra_payment, interest_rate, due_day,
		       last_cycle_at, created_at, updated_at
		FROM tracker.card_accounts
		WHERE ($1 = 0 OR user_id = $1)
		ORDER BY id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card accounts: %w", err)
	}
	defer rows.Close()

	var cards []models.CardAccount
	for rows.Next() {
		var card models.CardAccount
		var statement sql.NullFloat64
		if err := rows.Scan(
			&card.ID, &card.UserID, &card.Name, &card.UsedLimit, &statement,
			&card.PendingCharges, &card.SpendPerMonth, &card.MinimumPayment,
			&card.MinimumPaymentType, &card.MinimumPaymentPercent, &card.ExtraPayment,
			&card.InterestRate, &card.DueDay, &card.LastCycleAt,
			&card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card account: %w", err)
		}
		if statement.Valid {
			v := statement.Float64
			card.StatementBalance = &v
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card accounts: %w", err)
	}
	return cards, nil
}

// UpdateCardCycleState persists a card's balances after a cycle run
func (r *Repository) UpdateCardCycleState(id int64, statementBalance, pendingCharges float64, lastCycleAt time.Time) error {
	query := `
		UPDATE tracker.card_accounts
		SET statement_balance = $2, used_limit = $3, pending_charges = $4,
		    last_cycle_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	_, err := r.db.Exec(query, id, statementBalance, statementBalance+pendingCharges, pendingCharges, lastCycleAt)
	if err != nil {
		return fmt.Errorf("failed to update card cycle state: %w", err)
	}
	return nil
}

// CreateLoan creates a new tracked loan for a user
func (r *Repository) CreateLoan(loan *models.Loan) error {
	query := `
		INSERT INTO tracker.loans (
			user_id, name, principal_outstanding, interest_outstanding,
			minimum_payment, interest_rate, payment_cadence, custom_interval,
			custom_unit, extra_payment, due_day, subscription_cost,
			subscription_payments_left, last_cycle_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		loan.UserID, loan.Name, loan.PrincipalOutstanding, loan.InterestOutstanding,
		loan.MinimumPayment, loan.InterestRate, loan.PaymentCadence, loan.CustomInterval,
		loan.CustomUnit, loan.ExtraPayment, loan.DueDay, loan.SubscriptionCost,
		loan.SubscriptionPaymentsLeft, loan.LastCycleAt).
		Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// ListLoans retrieves every tracked loan, optionally filtered by user.
// A zero userID means all users (used by the monthly-cycle job).
func (r *Repository) ListLoans(userID int64) ([]models.Loan, error) {
	query := `
		SELECT id, user_id, name, principal_outstanding, interest_outstanding,
		       minimum_payment, interest_rate, payment_cadence, custom_interval,
		       custom_unit, extra_payment, due_day, subscription_cost,
		       subscription_payments_left, last_cycle_at, created_at, updated_at
		FROM tracker.loans
		WHERE ($1 = 0 OR user_id = $1)
		ORDER BY id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		if err := rows.Scan(
			&loan.ID, &loan.UserID, &loan.Name, &loan.PrincipalOutstanding,
			&loan.InterestOutstanding, &loan.MinimumPayment, &loan.InterestRate,
			&loan.PaymentCadence, &loan.CustomInterval, &loan.CustomUnit,
			&loan.ExtraPayment, &loan.DueDay, &loan.SubscriptionCost,
			&loan.SubscriptionPaymentsLeft, &loan.LastCycleAt,
			&loan.CreatedAt, &loan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	return loans, nil
}

// FindLoanByID retrieves one loan, scoped to its owner
func (r *Repository) FindLoanByID(userID, loanID int64) (*models.Loan, error) {
	loans, err := r.ListLoans(userID)
	if err != nil {
		return nil, err
	}
	for i := range loans {
		if loans[i].ID == loanID {
			return &loans[i], nil
		}
	}
	return nil, fmt.Errorf("loan not found")
}

// UpdateLoanCycleState persists a loan's balances after a cycle run
func (r *Repository) UpdateLoanCycleState(id int64, principal, interest float64, subscriptionPaymentsLeft int, lastCycleAt time.Time) error {
	query := `
		UPDATE tracker.loans
		SET principal_outstanding = $2, interest_outstanding = $3,
		    subscription_payments_left = $4, last_cycle_at = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	_, err := r.db.Exec(query, id, principal, interest, subscriptionPaymentsLeft, lastCycleAt)
	if err != nil {
		return fmt.Errorf("failed to update loan cycle state: %w", err)
	}
	return nil
}

// CreateLoanEvent appends one history record for a loan
func (r *Repository) CreateLoanEvent(event *models.LoanEvent) error {
	query := `
		INSERT INTO tracker.loan_events (id, user_id, loan_id, type, amount, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRow(query, event.ID, event.UserID, event.LoanID, event.Type, event.Amount, event.OccurredAt).
		Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan event: %w", err)
	}
	return nil
}

// ListLoanEvents retrieves a user's loan history, oldest first
func (r *Repository) ListLoanEvents(userID int64) ([]models.LoanEvent, error) {
	query := `
		SELECT id, user_id, loan_id, type, amount, occurred_at, created_at
		FROM tracker.loan_events
		WHERE user_id = $1
		ORDER BY occurred_at`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan events: %w", err)
	}
	defer rows.Close()

	var events []models.LoanEvent
	for rows.Next() {
		var event models.LoanEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.LoanID, &event.Type,
			&event.Amount, &event.OccurredAt, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loan events: %w", err)
	}
	return events, nil
}

// CreateCycleRun records one applied cycle batch. The unique constraint on
// (account_kind, account_id, cycle_key) turns a duplicate application into
// ErrCycleAlreadyApplied before any balance is mutated.
func (r *Repository) CreateCycleRun(run *models.CycleRun) error {
	query := `
		INSERT INTO tracker.cycle_runs (
			account_kind, account_id, cycle_key, cycles,
			interest_accrued, payments_applied, new_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query,
		run.AccountKind, run.AccountID, run.CycleKey, run.Cycles,
		run.InterestAccrued, run.PaymentsApplied, run.NewBalance).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrCycleAlreadyApplied
		}
		return fmt.Errorf("failed to create cycle run: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
