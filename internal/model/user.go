package model

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:120;not null"`
	Username     string    `gorm:"size:15;not null;uniqueIndex:uk_users_username"`
	Email        string    `gorm:"size:50;not null;uniqueIndex:uk_users_email"`
	PasswordHash string    `gorm:"column:password_hash;size:80;not null"`
	Address      string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
