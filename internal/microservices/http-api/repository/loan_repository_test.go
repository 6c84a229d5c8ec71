package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/library"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/testutil"
)

func TestLoanRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("MarkReturnedOnlyOnce", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 1)
		reader := testutil.SeedReader(t, db, "Ann")

		loan := &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC().Add(-time.Hour)}
		require.NoError(t, repo.CreateLoan(ctx, loan))

		at := time.Now().UTC()
		require.NoError(t, repo.MarkReturned(ctx, loan.ID, at))
		assert.ErrorIs(t, repo.MarkReturned(ctx, loan.ID, at.Add(time.Minute)), library.ErrLoanAlreadyReturned)

		got, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ReturnDate)
		assert.WithinDuration(t, at, *got.ReturnDate, time.Second)
		assert.Equal(t, "Emma", got.Book.Title)
		assert.Equal(t, "Ann", got.Reader.Name)
	})

	t.Run("AdjustQuantityIsRelative", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 3)

		qty, err := repo.AdjustQuantity(ctx, book.ID, -1)
		require.NoError(t, err)
		assert.Equal(t, 2, qty)

		qty, err = repo.AdjustQuantity(ctx, book.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, qty)
	})

	t.Run("AdjustQuantityNeverBelowZero", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 0)

		_, err := repo.AdjustQuantity(ctx, book.ID, -1)
		assert.Error(t, err)
		assert.Equal(t, 0, testutil.Quantity(t, db, book.ID))
	})

	t.Run("AdjustQuantityUnknownBook", func(t *testing.T) {
		repo := NewLoanRepository(testutil.NewDB(t))

		_, err := repo.AdjustQuantity(ctx, 404, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SecondActiveHoldRejectedByStorage", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 5)
		reader := testutil.SeedReader(t, db, "Ann")

		require.NoError(t, repo.CreateLoan(ctx, &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()}))
		err := repo.CreateLoan(ctx, &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()})
		assert.Error(t, err)
	})

	t.Run("ReturnedHoldDoesNotBlockNewLoan", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 5)
		reader := testutil.SeedReader(t, db, "Ann")

		first := &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC().Add(-time.Hour)}
		require.NoError(t, repo.CreateLoan(ctx, first))
		require.NoError(t, repo.MarkReturned(ctx, first.ID, time.Now().UTC()))

		assert.NoError(t, repo.CreateLoan(ctx, &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()}))
	})

	t.Run("ReturnBeforeBorrowRejectedByStorage", func(t *testing.T) {
		db := testutil.NewDB(t)
		repo := NewLoanRepository(db)
		book := testutil.SeedBook(t, db, "Emma", 5)
		reader := testutil.SeedReader(t, db, "Ann")

		borrowed := time.Now().UTC()
		loan := &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: borrowed}
		require.NoError(t, repo.CreateLoan(ctx, loan))

		assert.Error(t, repo.MarkReturned(ctx, loan.ID, borrowed.Add(-24*time.Hour)))
	})
}

func TestTransactor(t *testing.T) {
	ctx := context.Background()

	t.Run("RollsBackLoanWhenInventoryFails", func(t *testing.T) {
		db := testutil.NewDB(t)
		book := testutil.SeedBook(t, db, "Emma", 1)
		reader := testutil.SeedReader(t, db, "Ann")
		boom := errors.New("boom")

		err := NewTransactor(db).Atomically(ctx, func(loans library.LoanStore, inventory library.InventoryStore) error {
			require.NoError(t, loans.CreateLoan(ctx, &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()}))
			return boom
		})

		assert.ErrorIs(t, err, boom)
		var count int64
		require.NoError(t, db.Model(&models.Loan{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("CommitsBoth", func(t *testing.T) {
		db := testutil.NewDB(t)
		book := testutil.SeedBook(t, db, "Emma", 1)
		reader := testutil.SeedReader(t, db, "Ann")

		err := NewTransactor(db).Atomically(ctx, func(loans library.LoanStore, inventory library.InventoryStore) error {
			if err := loans.CreateLoan(ctx, &models.Loan{BookID: book.ID, ReaderID: reader.ID, BorrowDate: time.Now().UTC()}); err != nil {
				return err
			}
			_, err := inventory.AdjustQuantity(ctx, book.ID, -1)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, 0, testutil.Quantity(t, db, book.ID))
	})
}
