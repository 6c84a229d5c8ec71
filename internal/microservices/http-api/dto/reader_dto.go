package dto

import (
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
)

type ReaderRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email"`
}

type PatchReaderRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (r PatchReaderRequest) Patch() service.ReaderPatch {
	return service.ReaderPatch{Name: r.Name, Email: r.Email}
}

// ReaderFullQuery: ?actual=true keeps only unreturned loans
type ReaderFullQuery struct {
	Actual bool `form:"actual"`
}

type ReaderResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReaderFullResponse struct {
	ReaderResponse
	Loans []LoanResponse `json:"loans"`
}

func NewReaderResponse(r *models.Reader) ReaderResponse {
	return ReaderResponse{ID: r.ID, Name: r.Name, Email: r.Email}
}

func NewReaderResponses(readers []models.Reader) []ReaderResponse {
	out := make([]ReaderResponse, 0, len(readers))
	for i := range readers {
		out = append(out, NewReaderResponse(&readers[i]))
	}
	return out
}

func NewReaderFullResponse(r *models.Reader) ReaderFullResponse {
	return ReaderFullResponse{ReaderResponse: NewReaderResponse(r), Loans: NewLoanResponses(r.Loans)}
}
