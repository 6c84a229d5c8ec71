package service

import (
	"context"
	"errors"
	"log/slog"

	"libraryhub/internal/library"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// HoldingsCache is a read-through cache of the ids of the books a reader
// holds. Book rows are always loaded fresh.
type HoldingsCache interface {
	GetHoldings(ctx context.Context, readerID int64) ([]int64, bool)
	SetHoldings(ctx context.Context, readerID int64, bookIDs []int64)
	InvalidateHoldings(ctx context.Context, readerID int64)
}

type nopHoldingsCache struct{}

func (nopHoldingsCache) GetHoldings(context.Context, int64) ([]int64, bool) { return nil, false }
func (nopHoldingsCache) SetHoldings(context.Context, int64, []int64)         {}
func (nopHoldingsCache) InvalidateHoldings(context.Context, int64)           {}

// LoanService resolves ids to entities and runs the borrow/return workflow.
type LoanService interface {
	Serve(ctx context.Context, bookID, readerID int64) (library.Result, error)
	Return(ctx context.Context, loanID int64) (library.Result, error)
	Get(ctx context.Context, loanID int64) (*models.Loan, error)
	Holdings(ctx context.Context, readerID int64) ([]models.Book, error)
}

type loanService struct {
	books    repository.BookRepository
	readers  repository.ReaderRepository
	loans    repository.LoanRepository
	workflow *library.Workflow
	cache    HoldingsCache
	logger   *slog.Logger
}

// NewLoanService wires the workflow to its resolution collaborators. cache
// may be nil.
func NewLoanService(
	books repository.BookRepository,
	readers repository.ReaderRepository,
	loans repository.LoanRepository,
	workflow *library.Workflow,
	cache HoldingsCache,
	logger *slog.Logger,
) LoanService {
	if cache == nil {
		cache = nopHoldingsCache{}
	}
	return &loanService{
		books:    books,
		readers:  readers,
		loans:    loans,
		workflow: workflow,
		cache:    cache,
		logger:   logger,
	}
}

func (s *loanService) Serve(ctx context.Context, bookID, readerID int64) (library.Result, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return library.Result{}, resolveErr(err, "Book", bookID)
	}
	reader, err := s.readers.FindWithActiveLoans(ctx, readerID)
	if err != nil {
		return library.Result{}, resolveErr(err, "Reader", readerID)
	}

	res, err := s.workflow.Borrow(ctx, book, reader)
	if err == nil && !res.IsRejected() || errors.Is(err, library.ErrInventoryInconsistent) {
		s.cache.InvalidateHoldings(ctx, readerID)
	}
	if err == nil && !res.IsRejected() {
		res.Loan.Book = book
	}
	return res, err
}

func (s *loanService) Return(ctx context.Context, loanID int64) (library.Result, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return library.Result{}, resolveErr(err, "Loan", loanID)
	}

	res, err := s.workflow.Return(ctx, loan)
	if err == nil && !res.IsRejected() || errors.Is(err, library.ErrInventoryInconsistent) {
		s.cache.InvalidateHoldings(ctx, loan.ReaderID)
	}
	return res, err
}

func (s *loanService) Get(ctx context.Context, loanID int64) (*models.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, resolveErr(err, "Loan", loanID)
	}
	return loan, nil
}

func (s *loanService) Holdings(ctx context.Context, readerID int64) ([]models.Book, error) {
	if bookIDs, ok := s.cache.GetHoldings(ctx, readerID); ok {
		return s.books.FindByIDs(ctx, bookIDs)
	}

	reader, err := s.readers.FindWithActiveLoans(ctx, readerID)
	if err != nil {
		return nil, resolveErr(err, "Reader", readerID)
	}
	books, err := library.ActiveHoldings(reader)
	if err != nil {
		return nil, err
	}

	bookIDs := make([]int64, len(books))
	for i, b := range books {
		bookIDs[i] = b.ID
	}
	s.cache.SetHoldings(ctx, readerID, bookIDs)
	return books, nil
}

func resolveErr(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(entity, id)
	}
	return &library.StorageError{Op: "resolve " + entity, Err: err}
}
