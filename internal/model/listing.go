package model

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusSold      ListingStatus = "sold"
)

type Listing struct {
	ID          uint64        `gorm:"primaryKey;autoIncrement"`
	Description string        `gorm:"type:text;not null"`
	Category    string        `gorm:"size:64;index;not null"`
	Subcategory string        `gorm:"size:64"`
	Price       int64         `gorm:"not null"`
	ImagePath   string        `gorm:"column:image_path;size:512"`
	Location    string        `gorm:"size:120"`
	Status      ListingStatus `gorm:"size:32;index;not null"`
	SellerID    uint64        `gorm:"column:seller_id;index;not null"`
	CreatedAt   time.Time     `gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
