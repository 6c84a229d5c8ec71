package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"libraryhub/internal/microservices/http-api/models"
)

type BookRepository interface {
	List(ctx context.Context, page Page) ([]models.Book, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	FindByIDWithLoans(ctx context.Context, id int64) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context, page Page) ([]models.Book, int64, error) {
	var (
		books []models.Book
		total int64
	)

	q := r.db.WithContext(ctx).Model(&models.Book{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	if err := page.apply(q).Order("id ASC").Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// FindByIDs returns the books with the given ids ordered by id. Missing ids
// are skipped.
func (r *bookRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Book, error) {
	books := make([]models.Book, 0, len(ids))
	if len(ids) == 0 {
		return books, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return books, nil
}

// FindByIDWithLoans loads the book together with its full loan history.
func (r *bookRepository) FindByIDWithLoans(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Loans", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&book, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Omit("Loans").Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", translate(err))
	}
	return nil
}

// Update writes the descriptive columns only. Quantity moves through the
// borrow and return workflow, never through here.
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).
		Model(&models.Book{ID: book.ID}).
		Select("title", "author", "published_at", "isbn").
		Updates(book)
	if result.Error != nil {
		return fmt.Errorf("update book: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
