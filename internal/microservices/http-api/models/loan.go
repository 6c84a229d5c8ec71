package models

import "time"

// Loan is one reader holding one copy of one book. A nil ReturnDate means
// the loan is active; once set it never changes again.
type Loan struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID     int64      `json:"book_id" gorm:"not null;uniqueIndex:idx_loans_active_hold,where:return_date IS NULL"`
	ReaderID   int64      `json:"reader_id" gorm:"not null;index;uniqueIndex:idx_loans_active_hold"`
	BorrowDate time.Time  `json:"borrow_date" gorm:"not null"`
	ReturnDate *time.Time `json:"return_date" gorm:"check:chk_loans_return_after_borrow,return_date IS NULL OR return_date >= borrow_date"`

	// Associations
	Book   *Book   `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Reader *Reader `json:"reader,omitempty" gorm:"foreignKey:ReaderID"`
}

func (Loan) TableName() string {
	return "loans"
}

// Active reports whether the loan has not been returned yet.
func (l *Loan) Active() bool {
	return l.ReturnDate == nil
}
