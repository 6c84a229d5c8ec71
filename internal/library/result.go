package library

import "libraryhub/internal/microservices/http-api/models"

type RejectionKind string

const (
	InsufficientQuantity RejectionKind = "INSUFFICIENT_QUANTITY"
	LimitReached         RejectionKind = "LIMIT_REACHED"
	DuplicateHold        RejectionKind = "DUPLICATE_HOLD"
	AlreadyReturned      RejectionKind = "ALREADY_RETURNED"
)

var rejectionDetails = map[RejectionKind]string{
	InsufficientQuantity: "Not enough quantity",
	LimitReached:         "Limit by items is reached",
	DuplicateHold:        "Impossible to borrow similar item",
	AlreadyReturned:      "Invalid operation. The item has already been returned",
}

// Rejection is a business-rule violation. It is a value, not an error.
type Rejection struct {
	Kind   RejectionKind `json:"kind"`
	Detail string        `json:"detail"`
}

func reject(kind RejectionKind) *Rejection {
	return &Rejection{Kind: kind, Detail: rejectionDetails[kind]}
}

// Result is the outcome of a borrow or return that reached a decision.
// Exactly one of Loan and Rejection is set.
type Result struct {
	Loan      *models.Loan
	Rejection *Rejection
}

func Accepted(loan *models.Loan) Result {
	return Result{Loan: loan}
}

func Rejected(r *Rejection) Result {
	return Result{Rejection: r}
}

func (r Result) IsRejected() bool {
	return r.Rejection != nil
}
