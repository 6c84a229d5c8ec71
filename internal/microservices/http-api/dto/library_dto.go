package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// ServeRequest: payload to lend a book to a reader
type ServeRequest struct {
	BookID   int64 `json:"book_id" binding:"required,min=1"`
	ReaderID int64 `json:"reader_id" binding:"required,min=1"`
}

// ReturnRequest: payload to close a loan
type ReturnRequest struct {
	LoanID int64 `json:"loan_id" binding:"required,min=1"`
}

// LoanResponse: a loan record, with its book when loaded
type LoanResponse struct {
	ID         int64         `json:"id"`
	BookID     int64         `json:"book_id"`
	ReaderID   int64         `json:"reader_id"`
	BorrowDate time.Time     `json:"borrow_date"`
	ReturnDate *time.Time    `json:"return_date"`
	Book       *BookResponse `json:"book,omitempty"`
}

func NewLoanResponse(l *models.Loan) LoanResponse {
	resp := LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		ReaderID:   l.ReaderID,
		BorrowDate: l.BorrowDate,
		ReturnDate: l.ReturnDate,
	}
	if l.Book != nil {
		b := NewBookResponse(l.Book)
		resp.Book = &b
	}
	return resp
}

func NewLoanResponses(loans []models.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, NewLoanResponse(&loans[i]))
	}
	return out
}

// HoldingsResponse: books a reader currently holds, ordered by id
type HoldingsResponse struct {
	ReaderID int64          `json:"reader_id"`
	Books    []BookResponse `json:"books"`
}

type ResolveDiscrepancyRequest struct {
	Apply bool `json:"apply"`
}
