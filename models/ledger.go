package models

import (
	"time"
)

// LedgerKind 账目类型：支出或收入
type LedgerKind string

const (
	KindExpense LedgerKind = "expense"
	KindIncome  LedgerKind = "income"
)

// 支出类别
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryEntertainment = "Entertainment"
	CategoryHealthcare    = "Healthcare"
	CategoryEducation     = "Education"
	CategoryOther         = "Other"
)

// 收入类别
const (
	CategorySalary     = "Salary"
	CategoryFreelance  = "Freelance"
	CategoryInvestment = "Investment"
	CategoryBusiness   = "Business"
	CategoryGift       = "Gift"
)

// MaxTitleLength 标题最大长度（字符数）
const MaxTitleLength = 100

// Entry 账目记录，支出和收入共用同一结构，分表（集合）存储
type Entry struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Title     string    `json:"title" gorm:"size:100;not null" bson:"title"`
	Amount    float64   `json:"amount" gorm:"not null" bson:"amount"`
	Category  string    `json:"category" gorm:"size:50;not null;default:Other" bson:"category"`
	Date      time.Time `json:"date" gorm:"not null;index" bson:"date"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Valid 是否为已知账目类型
func (k LedgerKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// TableName 对应的表名（MongoDB 中为集合名）
func (k LedgerKind) TableName() string {
	if k == KindIncome {
		return "incomes"
	}
	return "expenses"
}

// Label 展示用名称
func (k LedgerKind) Label() string {
	if k == KindIncome {
		return "Income"
	}
	return "Expense"
}

// Categories 获取该类型允许的类别
func (k LedgerKind) Categories() []string {
	if k == KindIncome {
		return []string{
			CategorySalary,
			CategoryFreelance,
			CategoryInvestment,
			CategoryBusiness,
			CategoryGift,
			CategoryOther,
		}
	}
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryEducation,
		CategoryOther,
	}
}

// HasCategory 类别是否属于该类型的枚举
func (k LedgerKind) HasCategory(category string) bool {
	for _, c := range k.Categories() {
		if c == category {
			return true
		}
	}
	return false
}
