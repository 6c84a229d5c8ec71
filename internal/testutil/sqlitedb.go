// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"libraryhub/database"
	"libraryhub/internal/microservices/http-api/models"
)

// NewDB opens a private in-memory SQLite database with the full schema
// migrated. Foreign keys are enforced so cascades behave like Postgres.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// SeedBook inserts a book with the given quantity.
func SeedBook(t testing.TB, db *gorm.DB, title string, quantity int) *models.Book {
	t.Helper()
	book := &models.Book{Title: title, Author: "Author of " + title, Quantity: quantity}
	require.NoError(t, db.Omit("Loans").Create(book).Error)
	return book
}

// SeedReader inserts a reader with a unique email.
func SeedReader(t testing.TB, db *gorm.DB, name string) *models.Reader {
	t.Helper()
	reader := &models.Reader{Name: name, Email: uuid.NewString() + "@example.com"}
	require.NoError(t, db.Omit("Loans").Create(reader).Error)
	return reader
}

// Quantity reads the stored quantity of a book.
func Quantity(t testing.TB, db *gorm.DB, bookID int64) int {
	t.Helper()
	var qty int
	require.NoError(t, db.Model(&models.Book{}).Select("quantity").Where("id = ?", bookID).Scan(&qty).Error)
	return qty
}
