package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"libraryhub/internal/microservices/http-api/models"
)

type Operation string

const (
	OpBorrow Operation = "borrow"
	OpReturn Operation = "return"
)

func (op Operation) delta() int {
	if op == OpBorrow {
		return -1
	}
	return 1
}

func (op Operation) loanStep() string {
	if op == OpBorrow {
		return "create loan"
	}
	return "mark loan returned"
}

const (
	outcomeAccepted     = "accepted"
	outcomeDatabase     = "database_error"
	outcomeInconsistent = "inventory_inconsistent"
)

// Workflow executes borrow and return against a LoanStore and an
// InventoryStore. The loan write always happens before the inventory
// adjustment, and the adjustment is attempted only if the loan write
// succeeded.
type Workflow struct {
	loans     LoanStore
	inventory InventoryStore
	tx        Transactor
	maxItems  int

	now       func() time.Time
	logger    *slog.Logger
	recorder  DiscrepancyRecorder
	publisher EventPublisher
	observer  Observer
	tracer    trace.Tracer
}

// Option configures a Workflow.
type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// WithTransactor makes the loan write and the inventory adjustment commit
// together. A failed adjustment then rolls the loan write back and is
// reported as a *StorageError instead of an *InconsistencyError.
func WithTransactor(tx Transactor) Option {
	return func(w *Workflow) { w.tx = tx }
}

func WithDiscrepancyRecorder(r DiscrepancyRecorder) Option {
	return func(w *Workflow) { w.recorder = r }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(w *Workflow) { w.publisher = p }
}

func WithObserver(o Observer) Option {
	return func(w *Workflow) { w.observer = o }
}

func WithTracer(t trace.Tracer) Option {
	return func(w *Workflow) { w.tracer = t }
}

// NewWorkflow creates a Workflow. maxItems is the number of simultaneous
// active loans a reader may hold.
func NewWorkflow(loans LoanStore, inventory InventoryStore, maxItems int, opts ...Option) *Workflow {
	w := &Workflow{
		loans:     loans,
		inventory: inventory,
		maxItems:  maxItems,
		now:       time.Now,
		logger:    slog.Default(),
		publisher: nopPublisher{},
		observer:  nopObserver{},
		tracer:    otel.Tracer("libraryhub/internal/library"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// MaxItems is the configured loan cap.
func (w *Workflow) MaxItems() int {
	return w.maxItems
}

// Borrow lends one copy of book to reader. reader.Loans must hold the
// reader's active loans. On success book.Quantity and reader.Loans are
// updated to match what was persisted.
func (w *Workflow) Borrow(ctx context.Context, book *models.Book, reader *models.Reader) (Result, error) {
	ctx, span := w.tracer.Start(ctx, "library.Borrow", trace.WithAttributes(
		attribute.Int64("book.id", book.ID),
		attribute.Int64("reader.id", reader.ID),
	))
	defer span.End()

	if rejection := DecideBorrow(book, reader.Loans, w.maxItems); rejection != nil {
		return w.rejected(span, OpBorrow, rejection, "book_id", book.ID, "reader_id", reader.ID), nil
	}

	loan := &models.Loan{
		BookID:     book.ID,
		ReaderID:   reader.ID,
		BorrowDate: w.now().UTC(),
	}

	qty, err := w.persist(ctx, OpBorrow, loan, func(ctx context.Context, loans LoanStore) error {
		return loans.CreateLoan(ctx, loan)
	})
	if err != nil {
		return Result{}, w.failed(span, OpBorrow, err)
	}

	book.Quantity = qty
	reader.Loans = append(reader.Loans, *loan)

	w.logger.Info("book borrowed",
		"loan_id", loan.ID, "book_id", book.ID, "reader_id", reader.ID, "quantity", qty)
	w.observer.ObserveOutcome(OpBorrow, outcomeAccepted)
	w.publish(ctx, LoanBorrowed, loan, qty)
	return Accepted(loan), nil
}

// Return closes an active loan and puts its copy back into inventory.
func (w *Workflow) Return(ctx context.Context, loan *models.Loan) (Result, error) {
	ctx, span := w.tracer.Start(ctx, "library.Return", trace.WithAttributes(
		attribute.Int64("loan.id", loan.ID),
		attribute.Int64("book.id", loan.BookID),
	))
	defer span.End()

	if rejection := DecideReturn(loan); rejection != nil {
		return w.rejected(span, OpReturn, rejection, "loan_id", loan.ID), nil
	}

	at := w.now().UTC()
	if at.Before(loan.BorrowDate) {
		at = loan.BorrowDate
	}

	qty, err := w.persist(ctx, OpReturn, loan, func(ctx context.Context, loans LoanStore) error {
		return loans.MarkReturned(ctx, loan.ID, at)
	})
	if errors.Is(err, ErrLoanAlreadyReturned) {
		// a concurrent return got there first
		return w.rejected(span, OpReturn, reject(AlreadyReturned), "loan_id", loan.ID), nil
	}
	if errors.Is(err, ErrInventoryInconsistent) {
		loan.ReturnDate = &at
	}
	if err != nil {
		return Result{}, w.failed(span, OpReturn, err)
	}

	loan.ReturnDate = &at
	if loan.Book != nil {
		loan.Book.Quantity = qty
	}

	w.logger.Info("book returned",
		"loan_id", loan.ID, "book_id", loan.BookID, "reader_id", loan.ReaderID, "quantity", qty)
	w.observer.ObserveOutcome(OpReturn, outcomeAccepted)
	w.publish(ctx, LoanReturned, loan, qty)
	return Accepted(loan), nil
}

// persist writes the loan through writeLoan and then adjusts the book's
// quantity by op.delta(). It returns the new quantity.
func (w *Workflow) persist(ctx context.Context, op Operation, loan *models.Loan, writeLoan func(context.Context, LoanStore) error) (int, error) {
	if w.tx != nil {
		var qty int
		err := w.tx.Atomically(ctx, func(loans LoanStore, inventory InventoryStore) error {
			if err := writeLoan(ctx, loans); err != nil {
				return asStorageError(op.loanStep(), err)
			}
			var err error
			qty, err = inventory.AdjustQuantity(ctx, loan.BookID, op.delta())
			if err != nil {
				return &StorageError{Op: "adjust inventory", Err: err}
			}
			return nil
		})
		if err != nil {
			return 0, asStorageError("commit "+string(op), err)
		}
		return qty, nil
	}

	if err := writeLoan(ctx, w.loans); err != nil {
		return 0, asStorageError(op.loanStep(), err)
	}

	// The loan write is committed; the adjustment must run even if the
	// caller has gone away.
	qty, err := w.inventory.AdjustQuantity(context.WithoutCancel(ctx), loan.BookID, op.delta())
	if err != nil {
		return 0, w.inconsistent(ctx, op, loan, err)
	}
	return qty, nil
}

// asStorageError wraps err as a *StorageError unless it already is one or it
// signals a lost return race.
func asStorageError(step string, err error) error {
	if errors.Is(err, ErrLoanAlreadyReturned) || errors.Is(err, ErrDatabase) {
		return err
	}
	return &StorageError{Op: step, Err: err}
}

func (w *Workflow) inconsistent(ctx context.Context, op Operation, loan *models.Loan, cause error) error {
	ie := &InconsistencyError{
		Operation: op,
		LoanID:    loan.ID,
		BookID:    loan.BookID,
		Delta:     op.delta(),
		Err:       cause,
	}

	w.logger.Error("inventory adjustment failed after loan write committed",
		"operation", op, "loan_id", ie.LoanID, "book_id", ie.BookID, "delta", ie.Delta, "error", cause)
	w.observer.ObserveInconsistency(op)

	if w.recorder != nil {
		d := &models.Discrepancy{
			LoanID:    ie.LoanID,
			BookID:    ie.BookID,
			Operation: string(op),
			Delta:     ie.Delta,
			Detail:    cause.Error(),
		}
		if err := w.recorder.RecordDiscrepancy(context.WithoutCancel(ctx), d); err != nil {
			w.logger.Error("failed to record inventory discrepancy",
				"loan_id", ie.LoanID, "book_id", ie.BookID, "error", err)
		}
	}
	return ie
}

func (w *Workflow) rejected(span trace.Span, op Operation, r *Rejection, attrs ...any) Result {
	span.SetAttributes(attribute.String("library.rejection", string(r.Kind)))
	w.logger.Info(string(op)+" rejected", append([]any{"kind", r.Kind}, attrs...)...)
	w.observer.ObserveOutcome(op, strings.ToLower(string(r.Kind)))
	return Rejected(r)
}

func (w *Workflow) failed(span trace.Span, op Operation, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, ErrInventoryInconsistent) {
		w.observer.ObserveOutcome(op, outcomeInconsistent)
		return err
	}
	w.logger.Error(string(op)+" failed", "error", err)
	w.observer.ObserveOutcome(op, outcomeDatabase)
	return err
}

func (w *Workflow) publish(ctx context.Context, typ LoanEventType, loan *models.Loan, qty int) {
	event := LoanEvent{
		Type:       typ,
		LoanID:     loan.ID,
		BookID:     loan.BookID,
		ReaderID:   loan.ReaderID,
		Quantity:   qty,
		OccurredAt: w.now().UTC(),
	}
	if err := w.publisher.PublishLoanEvent(ctx, event); err != nil {
		w.logger.Warn("failed to publish loan event", "type", typ, "loan_id", loan.ID, "error", err)
	}
}
