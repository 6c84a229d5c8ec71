package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/testutil"
)

func TestDiscrepancyRepository(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (DiscrepancyRepository, *models.Book, *models.Discrepancy, func() int) {
		db := testutil.NewDB(t)
		repo := NewDiscrepancyRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 2)
		d := &models.Discrepancy{LoanID: 1, BookID: book.ID, Operation: "borrow", Delta: -1, Detail: "timeout"}
		require.NoError(t, repo.RecordDiscrepancy(ctx, d))
		return repo, book, d, func() int { return testutil.Quantity(t, db, book.ID) }
	}

	t.Run("ListHidesResolved", func(t *testing.T) {
		repo, _, d, _ := setup(t)

		open, err := repo.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, open, 1)

		_, err = repo.Resolve(ctx, d.ID, false)
		require.NoError(t, err)

		open, err = repo.List(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, open)

		all, err := repo.List(ctx, true)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].Resolved)
	})

	t.Run("ResolveApplyAdjustsQuantity", func(t *testing.T) {
		repo, _, d, quantity := setup(t)

		got, err := repo.Resolve(ctx, d.ID, true)
		require.NoError(t, err)
		assert.True(t, got.Resolved)
		assert.NotNil(t, got.ResolvedAt)
		assert.Equal(t, 1, quantity())
	})

	t.Run("ResolveWithoutApplyKeepsQuantity", func(t *testing.T) {
		repo, _, d, quantity := setup(t)

		_, err := repo.Resolve(ctx, d.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 2, quantity())
	})

	t.Run("ResolveTwice", func(t *testing.T) {
		repo, _, d, quantity := setup(t)

		_, err := repo.Resolve(ctx, d.ID, true)
		require.NoError(t, err)
		_, err = repo.Resolve(ctx, d.ID, true)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		assert.Equal(t, 1, quantity())
	})

	t.Run("ResolveUnknown", func(t *testing.T) {
		repo, _, _, _ := setup(t)

		_, err := repo.Resolve(ctx, 999, false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
