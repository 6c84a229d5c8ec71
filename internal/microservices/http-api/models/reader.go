package models

import "time"

type Reader struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Loans is a back-reference; depending on the query it holds either the
	// full history or only the active loans.
	Loans []Loan `json:"loans,omitempty" gorm:"foreignKey:ReaderID;constraint:OnDelete:CASCADE;"`
}

func (Reader) TableName() string {
	return "readers"
}
