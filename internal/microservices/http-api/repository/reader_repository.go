package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"libraryhub/internal/microservices/http-api/models"
)

type ReaderRepository interface {
	List(ctx context.Context, page Page) ([]models.Reader, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Reader, error)
	// FindWithActiveLoans loads the reader with only the loans not yet
	// returned, each with its Book.
	FindWithActiveLoans(ctx context.Context, id int64) (*models.Reader, error)
	// FindWithLoans loads the reader's full loan history with books.
	FindWithLoans(ctx context.Context, id int64) (*models.Reader, error)
	Create(ctx context.Context, reader *models.Reader) error
	Update(ctx context.Context, reader *models.Reader) error
	Delete(ctx context.Context, id int64) error
}

type readerRepository struct {
	db *gorm.DB
}

func NewReaderRepository(db *gorm.DB) ReaderRepository {
	return &readerRepository{db: db}
}

func (r *readerRepository) List(ctx context.Context, page Page) ([]models.Reader, int64, error) {
	var (
		readers []models.Reader
		total   int64
	)

	q := r.db.WithContext(ctx).Model(&models.Reader{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count readers: %w", err)
	}
	if err := page.apply(q).Order("id ASC").Find(&readers).Error; err != nil {
		return nil, 0, fmt.Errorf("list readers: %w", err)
	}
	return readers, total, nil
}

func (r *readerRepository) FindByID(ctx context.Context, id int64) (*models.Reader, error) {
	var reader models.Reader
	if err := r.db.WithContext(ctx).First(&reader, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reader, nil
}

func (r *readerRepository) FindWithActiveLoans(ctx context.Context, id int64) (*models.Reader, error) {
	var reader models.Reader
	err := r.db.WithContext(ctx).
		Preload("Loans", "return_date IS NULL").
		Preload("Loans.Book").
		First(&reader, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reader, nil
}

func (r *readerRepository) FindWithLoans(ctx context.Context, id int64) (*models.Reader, error) {
	var reader models.Reader
	err := r.db.WithContext(ctx).
		Preload("Loans", func(db *gorm.DB) *gorm.DB { return db.Order("borrow_date DESC") }).
		Preload("Loans.Book").
		First(&reader, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reader, nil
}

func (r *readerRepository) Create(ctx context.Context, reader *models.Reader) error {
	if err := r.db.WithContext(ctx).Omit("Loans").Create(reader).Error; err != nil {
		return fmt.Errorf("create reader: %w", translate(err))
	}
	return nil
}

func (r *readerRepository) Update(ctx context.Context, reader *models.Reader) error {
	result := r.db.WithContext(ctx).
		Model(&models.Reader{ID: reader.ID}).
		Select("name", "email").
		Updates(reader)
	if result.Error != nil {
		return fmt.Errorf("update reader: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *readerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Reader{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete reader: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
