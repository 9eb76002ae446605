package store

import (
	"context"
	"time"

	"budgeto/models"

	"github.com/google/uuid"
)

// UserStore 用户凭证存储，email 唯一由存储层索引保证
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LedgerStore 支出/收入账目存储，只支持新增与查询
type LedgerStore interface {
	Create(ctx context.Context, kind models.LedgerKind, entry *models.Entry) error
	ListRecent(ctx context.Context, kind models.LedgerKind, limit int) ([]models.Entry, error)
	// SumBetween 统计 [start, end) 区间内的金额合计
	SumBetween(ctx context.Context, kind models.LedgerKind, start, end time.Time) (float64, error)
}

// BudgetStore 月度预算存储，(userID, month) 唯一
type BudgetStore interface {
	Upsert(ctx context.Context, userID, month string, amount float64) (*models.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]models.Budget, error)
	FindByUserAndMonth(ctx context.Context, userID, month string) (*models.Budget, error)
}

// Stores 一组存储实现，由启动时选择的驱动创建后注入各服务
type Stores struct {
	Users   UserStore
	Ledger  LedgerStore
	Budgets BudgetStore
}

func newID() string {
	return uuid.NewString()
}

func stampEntry(entry *models.Entry, now time.Time) {
	if entry.ID == "" {
		entry.ID = newID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
}
