package models

import "time"

type Book struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Author      string    `json:"author" gorm:"not null"`
	PublishedAt *int      `json:"published_at,omitempty" gorm:"check:chk_books_published_at,published_at >= 1000"`
	ISBN        *string   `json:"isbn,omitempty" gorm:"uniqueIndex;size:32"`
	Quantity    int       `json:"quantity" gorm:"not null;check:chk_books_quantity,quantity >= 0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Loans []Loan `json:"loans,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}
