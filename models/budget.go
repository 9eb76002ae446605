package models

import (
	"time"
)

// Budget 月度预算，(UserID, Month) 唯一
type Budget struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID    string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_budget_user_month" bson:"userId"`
	Month     string    `json:"month" gorm:"size:7;not null;uniqueIndex:idx_budget_user_month" bson:"month"` // YYYY-MM
	Amount    float64   `json:"amount" gorm:"not null" bson:"amount"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Budget) TableName() string {
	return "budgets"
}
