package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"budgeto/apperr"
	"budgeto/models"
	"budgeto/store"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidMonth 月份格式 YYYY-MM 且月份在 01-12 之间
func ValidMonth(month string) bool {
	if !monthPattern.MatchString(month) {
		return false
	}
	m, _ := strconv.Atoi(month[5:])
	return m >= 1 && m <= 12
}

// MonthRange 返回月份对应的半开区间 [本月1日, 下月1日)，服务器本地时区
func MonthRange(month string) (time.Time, time.Time, error) {
	if !ValidMonth(month) {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid month parameter")
	}
	y, _ := strconv.Atoi(month[:4])
	m, _ := strconv.Atoi(month[5:])
	start := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0), nil
}

// BudgetService 月度预算，按用户隔离
type BudgetService struct {
	budgets store.BudgetStore
}

func NewBudgetService(budgets store.BudgetStore) *BudgetService {
	return &BudgetService{budgets: budgets}
}

// Upsert 同一 (userID, month) 只保留一条，金额以最后一次为准
func (s *BudgetService) Upsert(ctx context.Context, userID, month string, amount *float64) (*models.Budget, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	month = strings.TrimSpace(month)
	if !ValidMonth(month) || amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < 0 {
		return nil, apperr.Validation("Invalid month or amount")
	}
	return s.budgets.Upsert(ctx, userID, month, *amount)
}

// ListByUser 未登录返回空列表
func (s *BudgetService) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	if userID == "" {
		return []models.Budget{}, nil
	}
	return s.budgets.ListByUser(ctx, userID)
}

func (s *BudgetService) FindByUserAndMonth(ctx context.Context, userID, month string) (*models.Budget, error) {
	if userID == "" {
		return nil, nil
	}
	return s.budgets.FindByUserAndMonth(ctx, userID, month)
}
