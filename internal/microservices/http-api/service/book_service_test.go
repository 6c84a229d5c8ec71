package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/testutil"
)

func newTestBookService(t *testing.T) BookService {
	db := testutil.NewDB(t)
	return NewBookService(repository.NewBookRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ptr[T any](v T) *T { return &v }

func TestBookService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc := newTestBookService(t)

		book, err := svc.Create(ctx, BookInput{Title: " Dune ", Author: "Herbert", PublishedAt: ptr(1965)}, 3)

		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 3, book.Quantity)
	})

	t.Run("PublishedNextYear", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Create(ctx, BookInput{Title: "T", Author: "A", PublishedAt: ptr(time.Now().Year() + 1)}, 1)

		assert.ErrorIs(t, err, ErrPublishedInFuture)
	})

	t.Run("PublishedZero", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Create(ctx, BookInput{Title: "T", Author: "A", PublishedAt: ptr(0)}, 1)

		assert.ErrorIs(t, err, ErrPublishedTooEarly)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Create(ctx, BookInput{Author: "A"}, 1)

		assert.ErrorIs(t, err, ErrInvalidBook)
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Create(ctx, BookInput{Title: "T", Author: "A"}, -2)

		assert.ErrorIs(t, err, ErrNegativeQuantity)
	})

	t.Run("DuplicateISBN", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Create(ctx, BookInput{Title: "T", Author: "A", ISBN: ptr("isbn-1")}, 1)
		require.NoError(t, err)
		_, err = svc.Create(ctx, BookInput{Title: "U", Author: "B", ISBN: ptr("isbn-1")}, 1)

		assert.ErrorIs(t, err, ErrBookExists)
	})
}

func TestBookService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("PatchKeepsOtherFields", func(t *testing.T) {
		svc := newTestBookService(t)
		book, err := svc.Create(ctx, BookInput{Title: "T", Author: "A", PublishedAt: ptr(2000)}, 4)
		require.NoError(t, err)

		patched, err := svc.Patch(ctx, book.ID, BookPatch{Title: ptr("New title")})

		require.NoError(t, err)
		assert.Equal(t, "New title", patched.Title)
		assert.Equal(t, "A", patched.Author)
		assert.Equal(t, 2000, *patched.PublishedAt)
		assert.Equal(t, 4, patched.Quantity)
	})

	t.Run("ReplaceClearsOptionalFields", func(t *testing.T) {
		svc := newTestBookService(t)
		book, err := svc.Create(ctx, BookInput{Title: "T", Author: "A", PublishedAt: ptr(2000), ISBN: ptr("x")}, 1)
		require.NoError(t, err)

		_, err = svc.Replace(ctx, book.ID, BookInput{Title: "T2", Author: "A2"})
		require.NoError(t, err)

		got, err := svc.Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Nil(t, got.PublishedAt)
		assert.Nil(t, got.ISBN)
		assert.Equal(t, 1, got.Quantity)
	})

	t.Run("PatchPublishedTooEarly", func(t *testing.T) {
		svc := newTestBookService(t)
		book, err := svc.Create(ctx, BookInput{Title: "T", Author: "A"}, 1)
		require.NoError(t, err)

		_, err = svc.Patch(ctx, book.ID, BookPatch{PublishedAt: ptr(999)})

		assert.ErrorIs(t, err, ErrPublishedTooEarly)
	})

	t.Run("MissingBook", func(t *testing.T) {
		svc := newTestBookService(t)

		_, err := svc.Patch(ctx, 77, BookPatch{Title: ptr("x")})
		assert.EqualError(t, err, "Book with id=77 not exists")
		assert.ErrorIs(t, svc.Delete(ctx, 77), ErrNotFound)
	})
}

func TestReaderService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	cache := newMemoryCache()
	svc := NewReaderService(repository.NewReaderRepository(db), cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

	reader, err := svc.Create(ctx, "Ann", " Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", reader.Email)

	_, err = svc.Create(ctx, "Other", "ann@example.com")
	assert.ErrorIs(t, err, ErrReaderExists)

	_, err = svc.Create(ctx, "", "x@example.com")
	assert.ErrorIs(t, err, ErrInvalidReader)

	patched, err := svc.Patch(ctx, reader.ID, ReaderPatch{Name: ptr("Anne")})
	require.NoError(t, err)
	assert.Equal(t, "Anne", patched.Name)
	assert.Equal(t, "ann@example.com", patched.Email)

	full, err := svc.GetFull(ctx, reader.ID, true)
	require.NoError(t, err)
	assert.Empty(t, full.Loans)

	_, err = svc.Get(ctx, 404)
	assert.EqualError(t, err, "Reader with id=404 not exists")

	cache.entries[reader.ID] = []int64{1}
	require.NoError(t, svc.Delete(ctx, reader.ID))
	assert.NotContains(t, cache.entries, reader.ID)
	assert.Equal(t, []int64{reader.ID}, cache.invalidated)
}
