package library

import (
	"cmp"
	"slices"

	"libraryhub/internal/microservices/http-api/models"
)

// ActiveLoans keeps the loans whose return date is still unset.
func ActiveLoans(loans []models.Loan) []models.Loan {
	active := make([]models.Loan, 0, len(loans))
	for _, l := range loans {
		if l.Active() {
			active = append(active, l)
		}
	}
	return active
}

// ActiveHoldings returns the books the reader currently holds, ordered by
// book id ascending. The reader's loans must be loaded with their Book.
func ActiveHoldings(reader *models.Reader) ([]models.Book, error) {
	active := ActiveLoans(reader.Loans)
	books := make([]models.Book, 0, len(active))
	for _, l := range active {
		if l.Book == nil {
			return nil, ErrHoldingsNotLoaded
		}
		books = append(books, *l.Book)
	}

	slices.SortFunc(books, func(a, b models.Book) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return books, nil
}

func holdsBook(loans []models.Loan, bookID int64) bool {
	return slices.ContainsFunc(loans, func(l models.Loan) bool {
		return l.BookID == bookID
	})
}
