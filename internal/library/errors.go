package library

import (
	"errors"
	"fmt"
)

var (
	// ErrDatabase is matched by every *StorageError.
	ErrDatabase = errors.New("error occurred while changing database data")

	// ErrInventoryInconsistent is matched by every *InconsistencyError.
	ErrInventoryInconsistent = errors.New("inventory is out of sync with loan records")

	// ErrLoanAlreadyReturned is returned by LoanStore.MarkReturned when the
	// loan has no active row left to update.
	ErrLoanAlreadyReturned = errors.New("loan record already returned")

	// ErrHoldingsNotLoaded is returned when a reader's active loans were
	// loaded without their books.
	ErrHoldingsNotLoaded = errors.New("active loans loaded without their books")
)

// StorageError is a failed write before anything was committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrDatabase, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrDatabase }

// InconsistencyError reports a loan write that committed while the matching
// inventory adjustment failed. The book's quantity is off by Delta until an
// operator reconciles it.
type InconsistencyError struct {
	Operation Operation
	LoanID    int64
	BookID    int64
	Delta     int
	Err       error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s of loan %d committed but quantity of book %d was not adjusted by %+d: %v",
		e.Operation, e.LoanID, e.BookID, e.Delta, e.Err)
}

func (e *InconsistencyError) Unwrap() error { return e.Err }

func (e *InconsistencyError) Is(target error) bool { return target == ErrInventoryInconsistent }
