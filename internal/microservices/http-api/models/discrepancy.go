package models

import "time"

// Discrepancy records an inventory adjustment that failed after its loan
// write had already committed. Operators resolve it by hand.
type Discrepancy struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	LoanID     int64      `gorm:"not null;index" json:"loan_id"`
	BookID     int64      `gorm:"not null;index" json:"book_id"`
	Operation  string     `gorm:"size:16;not null" json:"operation"` // borrow, return
	Delta      int        `gorm:"not null" json:"delta"`
	Detail     string     `json:"detail"`
	Resolved   bool       `gorm:"default:false;not null" json:"resolved"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (Discrepancy) TableName() string {
	return "inventory_discrepancies"
}
