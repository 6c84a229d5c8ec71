package library

import "libraryhub/internal/microservices/http-api/models"

// DecideBorrow checks whether reader may borrow book. Checks run in a fixed
// order and the first failing one wins:
//
//	INSUFFICIENT_QUANTITY  book.Quantity < 1
//	LIMIT_REACHED          the reader already holds maxItems active loans
//	DUPLICATE_HOLD         the reader already holds this book
//
// Only active loans count, so callers may pass a full loan history.
// A nil result means the borrow may proceed.
func DecideBorrow(book *models.Book, loans []models.Loan, maxItems int) *Rejection {
	if book.Quantity < 1 {
		return reject(InsufficientQuantity)
	}

	active := ActiveLoans(loans)
	if len(active) >= maxItems {
		return reject(LimitReached)
	}

	if holdsBook(active, book.ID) {
		return reject(DuplicateHold)
	}
	return nil
}

// DecideReturn rejects a loan whose return date is already set.
func DecideReturn(loan *models.Loan) *Rejection {
	if !loan.Active() {
		return reject(AlreadyReturned)
	}
	return nil
}
