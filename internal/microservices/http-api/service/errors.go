package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBookExists          = errors.New("Book already exists")
	ErrReaderExists        = errors.New("Reader already exists")
	ErrPublishedInFuture   = errors.New("Published year can't be greater than current year")
	ErrPublishedTooEarly   = errors.New("Published year can't be less than 1000")
	ErrInvalidBook         = errors.New("title and author are required")
	ErrInvalidReader       = errors.New("name and email are required")
	ErrNegativeQuantity    = errors.New("quantity can't be negative")
	ErrDiscrepancyResolved = errors.New("discrepancy already resolved")
)

// NotFoundError reports a missing entity by id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%d not exists", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}
