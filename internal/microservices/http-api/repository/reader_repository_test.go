package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/testutil"
)

func TestReaderRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := NewReaderRepository(testutil.NewDB(t))

		require.NoError(t, repo.Create(ctx, &models.Reader{Name: "Ann", Email: "ann@example.com"}))
		err := repo.Create(ctx, &models.Reader{Name: "Other Ann", Email: "ann@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("ActiveLoansOnly", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewReaderRepository(db)
		loans := NewLoanRepository(db)
		reader := testutil.SeedReader(t, db, "Ann")
		kept := testutil.SeedBook(t, db, "Kept", 1)
		returned := testutil.SeedBook(t, db, "Returned", 1)

		require.NoError(t, loans.CreateLoan(ctx, &models.Loan{BookID: kept.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()}))
		old := &models.Loan{BookID: returned.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC().Add(-time.Hour)}
		require.NoError(t, loans.CreateLoan(ctx, old))
		require.NoError(t, loans.MarkReturned(ctx, old.ID, time.Now().UTC()))

		active, err := repo.FindWithActiveLoans(ctx, reader.ID)
		require.NoError(t, err)
		require.Len(t, active.Loans, 1)
		require.NotNil(t, active.Loans[0].Book)
		assert.Equal(t, "Kept", active.Loans[0].Book.Title)

		full, err := repo.FindWithLoans(ctx, reader.ID)
		require.NoError(t, err)
		assert.Len(t, full.Loans, 2)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewReaderRepository(db)
		reader := testutil.SeedReader(t, db, "Ann")

		reader.Name = "Anne"
		require.NoError(t, repo.Update(ctx, reader))
		got, err := repo.FindByID(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, "Anne", got.Name)

		require.NoError(t, repo.Delete(ctx, reader.ID))
		_, err = repo.FindByID(ctx, reader.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
