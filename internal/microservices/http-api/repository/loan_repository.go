package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/library"
	"libraryhub/internal/microservices/http-api/models"
)

// LoanRepository stores loans and the book inventory they draw from. It
// satisfies library.LoanStore and library.InventoryStore.
type LoanRepository interface {
	library.LoanStore
	library.InventoryStore
	FindByID(ctx context.Context, id int64) (*models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if err := r.db.WithContext(ctx).Omit("Book", "Reader").Create(loan).Error; err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// MarkReturned only touches a row whose return date is still unset, so of two
// concurrent returns exactly one wins.
func (r *loanRepository) MarkReturned(ctx context.Context, loanID int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND return_date IS NULL", loanID).
		Update("return_date", at)
	if result.Error != nil {
		return fmt.Errorf("update loan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return library.ErrLoanAlreadyReturned
	}
	return nil
}

// AdjustQuantity applies delta relative to the stored value. The check
// constraint on books.quantity rejects any result below zero.
func (r *loanRepository) AdjustQuantity(ctx context.Context, bookID int64, delta int) (int, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("adjust quantity of book %d: %w", bookID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("adjust quantity of book %d: %w", bookID, ErrNotFound)
	}

	var qty int
	if err := db.Model(&models.Book{}).Select("quantity").Where("id = ?", bookID).Scan(&qty).Error; err != nil {
		return 0, fmt.Errorf("read quantity of book %d: %w", bookID, err)
	}
	return qty, nil
}

func (r *loanRepository) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Reader").
		First(&loan, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loan, nil
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor returns a library.Transactor that binds both stores to one
// gorm transaction.
func NewTransactor(db *gorm.DB) library.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Atomically(ctx context.Context, fn func(library.LoanStore, library.InventoryStore) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &loanRepository{db: tx}
		return fn(repo, repo)
	})
}
