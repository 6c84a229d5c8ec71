package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// BookInput is the full set of editable book fields.
type BookInput struct {
	Title       string
	Author      string
	PublishedAt *int
	ISBN        *string
}

// BookPatch carries only the fields to change.
type BookPatch struct {
	Title       *string
	Author      *string
	PublishedAt *int
	ISBN        *string
}

type BookService interface {
	List(ctx context.Context, page, size int) ([]models.Book, int64, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	GetFull(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in BookInput, quantity int) (*models.Book, error)
	Replace(ctx context.Context, id int64, in BookInput) (*models.Book, error)
	Patch(ctx context.Context, id int64, patch BookPatch) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo   repository.BookRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewBookService(repo repository.BookRepository, logger *slog.Logger) BookService {
	return &bookService{repo: repo, logger: logger, now: time.Now}
}

func (s *bookService) List(ctx context.Context, page, size int) ([]models.Book, int64, error) {
	return s.repo.List(ctx, repository.Page{Number: page, Size: size})
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, id)
	}
	return book, nil
}

func (s *bookService) GetFull(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByIDWithLoans(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, id)
	}
	return book, nil
}

func (s *bookService) Create(ctx context.Context, in BookInput, quantity int) (*models.Book, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	book := &models.Book{Quantity: quantity}
	apply(book, in)
	if err := s.validate(book); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, s.mapErr(err, 0)
	}
	s.logger.Info("book created", "book_id", book.ID, "quantity", book.Quantity)
	return book, nil
}

func (s *bookService) Replace(ctx context.Context, id int64, in BookInput) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(book, in)
	return s.save(ctx, book)
}

func (s *bookService) Patch(ctx context.Context, id int64, patch BookPatch) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.PublishedAt != nil {
		book.PublishedAt = patch.PublishedAt
	}
	if patch.ISBN != nil {
		book.ISBN = patch.ISBN
	}
	return s.save(ctx, book)
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, id)
	}
	s.logger.Info("book deleted", "book_id", id)
	return nil
}

func (s *bookService) save(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := s.validate(book); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, s.mapErr(err, book.ID)
	}
	return book, nil
}

// minPublishedYear matches the chk_books_published_at constraint.
const minPublishedYear = 1000

func (s *bookService) validate(book *models.Book) error {
	if strings.TrimSpace(book.Title) == "" || strings.TrimSpace(book.Author) == "" {
		return ErrInvalidBook
	}
	if book.PublishedAt != nil {
		switch {
		case *book.PublishedAt < minPublishedYear:
			return ErrPublishedTooEarly
		case *book.PublishedAt > s.now().Year():
			return ErrPublishedInFuture
		}
	}
	return nil
}

func (s *bookService) mapErr(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("Book", id)
	case errors.Is(err, repository.ErrDuplicate):
		return ErrBookExists
	}
	return err
}

func apply(book *models.Book, in BookInput) {
	book.Title = strings.TrimSpace(in.Title)
	book.Author = strings.TrimSpace(in.Author)
	book.PublishedAt = in.PublishedAt
	book.ISBN = in.ISBN
}
