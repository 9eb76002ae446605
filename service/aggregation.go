package service

import (
	"context"

	"budgeto/models"
	"budgeto/store"

	"github.com/shopspring/decimal"
)

// predictionWindow 预测使用的最近支出条数
const predictionWindow = 5

// Trend 支出趋势
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// MonthlySummary 月度支出与预算
type MonthlySummary struct {
	Month         string  `json:"month"`
	TotalExpenses float64 `json:"totalExpenses"`
	BudgetAmount  float64 `json:"budgetAmount"`
}

// Prediction 支出预测结果，金额保留两位小数
type Prediction struct {
	AverageExpense       float64 `json:"averageExpense"`
	PredictedNextExpense float64 `json:"predictedNextExpense"`
	Trend                Trend   `json:"trend"`
	RecentExpenses       int     `json:"recentExpenses"`
	Message              string  `json:"message,omitempty"`
}

// AggregationService 月度汇总与支出预测
type AggregationService struct {
	ledger  store.LedgerStore
	budgets store.BudgetStore
}

func NewAggregationService(ledger store.LedgerStore, budgets store.BudgetStore) *AggregationService {
	return &AggregationService{ledger: ledger, budgets: budgets}
}

// MonthlyExpenseTotal 指定月份支出合计，不做舍入
func (s *AggregationService) MonthlyExpenseTotal(ctx context.Context, month string) (float64, error) {
	start, end, err := MonthRange(month)
	if err != nil {
		return 0, err
	}
	return s.ledger.SumBetween(ctx, models.KindExpense, start, end)
}

// MonthlySummary 未登录（userID 为空）时返回全零，不报错
func (s *AggregationService) MonthlySummary(ctx context.Context, userID, month string) (*MonthlySummary, error) {
	if _, _, err := MonthRange(month); err != nil {
		return nil, err
	}
	summary := &MonthlySummary{Month: month}
	if userID == "" {
		return summary, nil
	}

	total, err := s.MonthlyExpenseTotal(ctx, month)
	if err != nil {
		return nil, err
	}
	summary.TotalExpenses = total

	budget, err := s.budgets.FindByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if budget != nil {
		summary.BudgetAmount = budget.Amount
	}
	return summary, nil
}

// Predict 基于最近 5 条支出（按日期倒序）预测下一笔支出
func (s *AggregationService) Predict(ctx context.Context) (*Prediction, error) {
	entries, err := s.ledger.ListRecent(ctx, models.KindExpense, predictionWindow)
	if err != nil {
		return nil, err
	}
	amounts := make([]float64, 0, len(entries))
	for _, e := range entries {
		amounts = append(amounts, e.Amount)
	}
	return PredictFromAmounts(amounts), nil
}

// PredictFromAmounts amounts 须为按日期倒序的金额，不重新排序
// 前半段 [0, n/2) 为较新的记录，后半段为较旧的记录
func PredictFromAmounts(amounts []float64) *Prediction {
	n := len(amounts)
	if n == 0 {
		return &Prediction{
			Trend:   TrendStable,
			Message: "Not enough data for predictions",
		}
	}

	average := mean(amounts)
	mid := n / 2
	trend := TrendStable
	if mid > 0 {
		firstMean := mean(amounts[:mid])
		secondMean := mean(amounts[mid:])
		switch {
		case secondMean > firstMean*1.1:
			trend = TrendIncreasing
		case secondMean < firstMean*0.9:
			trend = TrendDecreasing
		}
	}

	predicted := average
	switch trend {
	case TrendIncreasing:
		predicted = average * 1.1
	case TrendDecreasing:
		predicted = average * 0.9
	}

	return &Prediction{
		AverageExpense:       round2(average),
		PredictedNextExpense: round2(predicted),
		Trend:                trend,
		RecentExpenses:       n,
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round2 按十进制字面值四舍五入到两位小数，1.005 得到 1.01
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
