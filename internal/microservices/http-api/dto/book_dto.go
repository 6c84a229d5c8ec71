package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
)

// CreateBookRequest: payload to add a title to the catalogue
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Author      string  `json:"author" binding:"required,max=255"`
	PublishedAt *int    `json:"published_at" binding:"omitempty,min=1000"`
	ISBN        *string `json:"isbn" binding:"omitempty,max=32"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
}

// QuantityOrDefault returns the requested quantity, 1 when omitted.
func (r CreateBookRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

func (r CreateBookRequest) Input() service.BookInput {
	return service.BookInput{Title: r.Title, Author: r.Author, PublishedAt: r.PublishedAt, ISBN: r.ISBN}
}

// UpdateBookRequest: PUT payload, every editable field
type UpdateBookRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Author      string  `json:"author" binding:"required,max=255"`
	PublishedAt *int    `json:"published_at" binding:"omitempty,min=1000"`
	ISBN        *string `json:"isbn" binding:"omitempty,max=32"`
}

func (r UpdateBookRequest) Input() service.BookInput {
	return service.BookInput{Title: r.Title, Author: r.Author, PublishedAt: r.PublishedAt, ISBN: r.ISBN}
}

// PatchBookRequest: PATCH payload, only present fields change
type PatchBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Author      *string `json:"author" binding:"omitempty,min=1,max=255"`
	PublishedAt *int    `json:"published_at" binding:"omitempty,min=1000"`
	ISBN        *string `json:"isbn" binding:"omitempty,max=32"`
}

func (r PatchBookRequest) Patch() service.BookPatch {
	return service.BookPatch{Title: r.Title, Author: r.Author, PublishedAt: r.PublishedAt, ISBN: r.ISBN}
}

type BookResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishedAt *int      `json:"published_at"`
	ISBN        *string   `json:"isbn"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookFullResponse adds the loan history.
type BookFullResponse struct {
	BookResponse
	Loans []LoanResponse `json:"loans"`
}

func NewBookResponse(b *models.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		PublishedAt: b.PublishedAt,
		ISBN:        b.ISBN,
		Quantity:    b.Quantity,
		CreatedAt:   b.CreatedAt,
	}
}

func NewBookResponses(books []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, NewBookResponse(&books[i]))
	}
	return out
}

func NewBookFullResponse(b *models.Book) BookFullResponse {
	return BookFullResponse{BookResponse: NewBookResponse(b), Loans: NewLoanResponses(b.Loans)}
}
