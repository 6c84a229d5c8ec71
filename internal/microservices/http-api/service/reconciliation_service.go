package service

import (
	"context"
	"errors"
	"log/slog"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// ReconciliationService lets operators review and close inventory
// discrepancies left behind by half-committed borrows and returns.
type ReconciliationService interface {
	Pending(ctx context.Context) ([]models.Discrepancy, error)
	All(ctx context.Context) ([]models.Discrepancy, error)
	Resolve(ctx context.Context, id int64, apply bool) (*models.Discrepancy, error)
}

type reconciliationService struct {
	repo   repository.DiscrepancyRepository
	logger *slog.Logger
}

func NewReconciliationService(repo repository.DiscrepancyRepository, logger *slog.Logger) ReconciliationService {
	return &reconciliationService{repo: repo, logger: logger}
}

func (s *reconciliationService) Pending(ctx context.Context) ([]models.Discrepancy, error) {
	return s.repo.List(ctx, false)
}

func (s *reconciliationService) All(ctx context.Context) ([]models.Discrepancy, error) {
	return s.repo.List(ctx, true)
}

func (s *reconciliationService) Resolve(ctx context.Context, id int64, apply bool) (*models.Discrepancy, error) {
	pending, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Discrepancy", id)
		}
		return nil, err
	}

	d, err := s.repo.Resolve(ctx, id, apply)
	switch {
	case errors.Is(err, repository.ErrAlreadyResolved):
		return nil, ErrDiscrepancyResolved
	case errors.Is(err, repository.ErrNotFound):
		// the book was deleted after the discrepancy was recorded
		return nil, notFound("Book", pending.BookID)
	case err != nil:
		return nil, err
	}

	s.logger.Warn("inventory discrepancy resolved",
		"discrepancy_id", d.ID, "book_id", d.BookID, "delta", d.Delta, "applied", apply)
	return d, nil
}
