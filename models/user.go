package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	PasswordHash string    `json:"-" gorm:"size:255;not null" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
