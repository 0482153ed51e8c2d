package model

import "time"

type Payment struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Reference  string    `gorm:"size:64;not null;uniqueIndex:uk_payments_reference"`
	CardNumber string    `gorm:"column:card_number;size:32;not null"`
	CardExpiry string    `gorm:"column:card_expiry;size:8;not null"`
	CardOwner  string    `gorm:"column:card_owner;size:120;not null"`
	ListingID  uint64    `gorm:"column:listing_id;index;not null"`
	Price      int64     `gorm:"not null"`
	PayerID    uint64    `gorm:"column:payer_id;index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
