package library

import (
	"context"
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// LoanStore persists loan records.
type LoanStore interface {
	// CreateLoan inserts loan and fills in its ID.
	CreateLoan(ctx context.Context, loan *models.Loan) error
	// MarkReturned sets the return date of an active loan. It returns
	// ErrLoanAlreadyReturned when no active loan with that id exists.
	MarkReturned(ctx context.Context, loanID int64, at time.Time) error
}

// InventoryStore adjusts a book's available copy count relative to its
// stored value and returns the new quantity.
type InventoryStore interface {
	AdjustQuantity(ctx context.Context, bookID int64, delta int) (int, error)
}

// Transactor runs fn against stores bound to a single transaction.
type Transactor interface {
	Atomically(ctx context.Context, fn func(loans LoanStore, inventory InventoryStore) error) error
}

type DiscrepancyRecorder interface {
	RecordDiscrepancy(ctx context.Context, d *models.Discrepancy) error
}

type LoanEventType string

const (
	LoanBorrowed LoanEventType = "loan.borrowed"
	LoanReturned LoanEventType = "loan.returned"
)

type LoanEvent struct {
	Type       LoanEventType `json:"type"`
	LoanID     int64         `json:"loan_id"`
	BookID     int64         `json:"book_id"`
	ReaderID   int64         `json:"reader_id"`
	Quantity   int           `json:"quantity"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type EventPublisher interface {
	PublishLoanEvent(ctx context.Context, event LoanEvent) error
}

// Observer receives one outcome per borrow/return call.
type Observer interface {
	ObserveOutcome(op Operation, outcome string)
	ObserveInconsistency(op Operation)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(Operation, string) {}
func (nopObserver) ObserveInconsistency(Operation)   {}

type nopPublisher struct{}

func (nopPublisher) PublishLoanEvent(context.Context, LoanEvent) error { return nil }
