package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

type ReaderPatch struct {
	Name  *string
	Email *string
}

type ReaderService interface {
	List(ctx context.Context, page, size int) ([]models.Reader, int64, error)
	Get(ctx context.Context, id int64) (*models.Reader, error)
	// GetFull loads the reader's loans with books. With activeOnly set only
	// unreturned loans are included.
	GetFull(ctx context.Context, id int64, activeOnly bool) (*models.Reader, error)
	Create(ctx context.Context, name, email string) (*models.Reader, error)
	Replace(ctx context.Context, id int64, name, email string) (*models.Reader, error)
	Patch(ctx context.Context, id int64, patch ReaderPatch) (*models.Reader, error)
	Delete(ctx context.Context, id int64) error
}

type readerService struct {
	repo   repository.ReaderRepository
	cache  HoldingsCache
	logger *slog.Logger
}

// NewReaderService returns a ReaderService. cache may be nil.
func NewReaderService(repo repository.ReaderRepository, cache HoldingsCache, logger *slog.Logger) ReaderService {
	if cache == nil {
		cache = nopHoldingsCache{}
	}
	return &readerService{repo: repo, cache: cache, logger: logger}
}

func (s *readerService) List(ctx context.Context, page, size int) ([]models.Reader, int64, error) {
	return s.repo.List(ctx, repository.Page{Number: page, Size: size})
}

func (s *readerService) Get(ctx context.Context, id int64) (*models.Reader, error) {
	reader, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReaderErr(err, id)
	}
	return reader, nil
}

func (s *readerService) GetFull(ctx context.Context, id int64, activeOnly bool) (*models.Reader, error) {
	find := s.repo.FindWithLoans
	if activeOnly {
		find = s.repo.FindWithActiveLoans
	}
	reader, err := find(ctx, id)
	if err != nil {
		return nil, mapReaderErr(err, id)
	}
	return reader, nil
}

func (s *readerService) Create(ctx context.Context, name, email string) (*models.Reader, error) {
	reader := &models.Reader{Name: strings.TrimSpace(name), Email: normalizeEmail(email)}
	if reader.Name == "" || reader.Email == "" {
		return nil, ErrInvalidReader
	}
	if err := s.repo.Create(ctx, reader); err != nil {
		return nil, mapReaderErr(err, 0)
	}
	s.logger.Info("reader created", "reader_id", reader.ID)
	return reader, nil
}

func (s *readerService) Replace(ctx context.Context, id int64, name, email string) (*models.Reader, error) {
	return s.Patch(ctx, id, ReaderPatch{Name: &name, Email: &email})
}

func (s *readerService) Patch(ctx context.Context, id int64, patch ReaderPatch) (*models.Reader, error) {
	reader, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		reader.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		reader.Email = normalizeEmail(*patch.Email)
	}
	if reader.Name == "" || reader.Email == "" {
		return nil, ErrInvalidReader
	}
	if err := s.repo.Update(ctx, reader); err != nil {
		return nil, mapReaderErr(err, id)
	}
	return reader, nil
}

func (s *readerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapReaderErr(err, id)
	}
	s.cache.InvalidateHoldings(ctx, id)
	s.logger.Info("reader deleted", "reader_id", id)
	return nil
}

func mapReaderErr(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("Reader", id)
	case errors.Is(err, repository.ErrDuplicate):
		return ErrReaderExists
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
