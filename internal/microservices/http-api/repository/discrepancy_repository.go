package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/microservices/http-api/models"
)

// DiscrepancyRepository is the ledger of inventory adjustments that failed
// after their loan write committed.
type DiscrepancyRepository interface {
	RecordDiscrepancy(ctx context.Context, d *models.Discrepancy) error
	List(ctx context.Context, includeResolved bool) ([]models.Discrepancy, error)
	FindByID(ctx context.Context, id int64) (*models.Discrepancy, error)
	// Resolve closes the entry. With apply set the pending delta is added to
	// the book's quantity in the same transaction.
	Resolve(ctx context.Context, id int64, apply bool) (*models.Discrepancy, error)
}

type discrepancyRepository struct {
	db *gorm.DB
}

func NewDiscrepancyRepository(db *gorm.DB) DiscrepancyRepository {
	return &discrepancyRepository{db: db}
}

func (r *discrepancyRepository) RecordDiscrepancy(ctx context.Context, d *models.Discrepancy) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *discrepancyRepository) List(ctx context.Context, includeResolved bool) ([]models.Discrepancy, error) {
	var out []models.Discrepancy
	q := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if !includeResolved {
		q = q.Where("resolved = ?", false)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	return out, nil
}

func (r *discrepancyRepository) FindByID(ctx context.Context, id int64) (*models.Discrepancy, error) {
	var d models.Discrepancy
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *discrepancyRepository) Resolve(ctx context.Context, id int64, apply bool) (*models.Discrepancy, error) {
	var d models.Discrepancy
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&d, id).Error; err != nil {
			return translate(err)
		}

		now := time.Now().UTC()
		result := tx.Model(&models.Discrepancy{}).
			Where("id = ? AND resolved = ?", id, false).
			Updates(map[string]any{"resolved": true, "resolved_at": now})
		if result.Error != nil {
			return fmt.Errorf("resolve discrepancy: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		d.Resolved = true
		d.ResolvedAt = &now

		if !apply {
			return nil
		}
		result = tx.Model(&models.Book{}).
			Where("id = ?", d.BookID).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", d.Delta),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("apply discrepancy to book %d: %w", d.BookID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("apply discrepancy to book %d: %w", d.BookID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
