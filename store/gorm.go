package store

import (
	"context"
	"errors"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// NewGormStores 基于同一个 *gorm.DB 连接池创建全部存储
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:   NewGormUserStore(db),
		Ledger:  NewGormLedgerStore(db),
		Budgets: NewGormBudgetStore(db),
	}
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormUserStore 用户存储（MySQL）
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.DuplicateEmail()
		}
		return apperr.Storage("Failed to create user", err)
	}
	return nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUserStore) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("Failed to fetch user", err)
	}
	return &user, nil
}

// GormLedgerStore 账目存储（MySQL），支出与收入分表
type GormLedgerStore struct {
	db *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: db}
}

func (s *GormLedgerStore) Create(ctx context.Context, kind models.LedgerKind, entry *models.Entry) error {
	stampEntry(entry, time.Now())
	if err := s.db.WithContext(ctx).Table(kind.TableName()).Create(entry).Error; err != nil {
		return apperr.Storage("Failed to add "+kind.Label(), err)
	}
	return nil
}

// ListRecent 按账目日期（非创建时间）倒序
func (s *GormLedgerStore) ListRecent(ctx context.Context, kind models.LedgerKind, limit int) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	err := s.db.WithContext(ctx).Table(kind.TableName()).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Storage("Failed to fetch "+kind.TableName(), err)
	}
	return entries, nil
}

func (s *GormLedgerStore) SumBetween(ctx context.Context, kind models.LedgerKind, start, end time.Time) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Table(kind.TableName()).
		Where("`date` >= ? AND `date` < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Storage("Failed to sum "+kind.TableName(), err)
	}
	return total, nil
}

// GormBudgetStore 预算存储（MySQL）
type GormBudgetStore struct {
	db *gorm.DB
}

func NewGormBudgetStore(db *gorm.DB) *GormBudgetStore {
	return &GormBudgetStore{db: db}
}

// Upsert 依赖 idx_budget_user_month 唯一索引：INSERT ... ON DUPLICATE KEY UPDATE
// 并发写同一 (userID, month) 不会产生两行
func (s *GormBudgetStore) Upsert(ctx context.Context, userID, month string, amount float64) (*models.Budget, error) {
	now := time.Now()
	budget := models.Budget{
		ID:        newID(),
		UserID:    userID,
		Month:     month,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&budget).Error
	if err != nil {
		return nil, apperr.Storage("Failed to save budget", err)
	}

	// 已存在时 ID/CreatedAt 以库中为准
	stored, err := s.FindByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return &budget, nil
	}
	return stored, nil
}

func (s *GormBudgetStore) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperr.Storage("Failed to fetch budgets", err)
	}
	return budgets, nil
}

func (s *GormBudgetStore) FindByUserAndMonth(ctx context.Context, userID, month string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).Where("user_id = ? AND month = ?", userID, month).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("Failed to fetch budget", err)
	}
	return &budget, nil
}
