package store

import (
	"context"
	"testing"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() {
		sqlDB.Close()
	}
}

func TestGormUserStore_Create(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{Email: "a@b.com", PasswordHash: "hash"}
	require.NoError(t, NewGormUserStore(db).Create(context.Background(), user))
	assert.Len(t, user.ID, 36)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStore_Create_Duplicate(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com' for key 'idx_users_email'"})
	mock.ExpectRollback()

	err := NewGormUserStore(db).Create(context.Background(), &models.User{Email: "a@b.com", PasswordHash: "hash"})
	assert.True(t, apperr.Is(err, apperr.KindDuplicateEmail))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStore_FindByEmail(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	s := NewGormUserStore(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u-1", "a@b.com", "hash", now, now))

	user, err := s.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)

	// 不存在时返回 nil, nil
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err = s.FindByEmail(context.Background(), "nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerStore_Create(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `incomes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &models.Entry{Title: "Salary", Amount: 3000, Category: "Salary", Date: time.Now()}
	require.NoError(t, NewGormLedgerStore(db).Create(context.Background(), models.KindIncome, entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerStore_ListRecent(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	newer := time.Date(2024, 5, 20, 0, 0, 0, 0, time.Local)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT \\* FROM `expenses` ORDER BY `date` DESC LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "amount", "category", "date", "created_at", "updated_at"}).
			AddRow("e-2", "Dinner", 40.0, "Food", newer, newer, newer).
			AddRow("e-1", "Bus", 2.5, "Transport", older, older, older))

	entries, err := NewGormLedgerStore(db).ListRecent(context.Background(), models.KindExpense, 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e-2", entries[0].ID)
	assert.Equal(t, 2.5, entries[1].Amount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerStore_SumBetween(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `incomes`").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(1234.5))

	total, err := NewGormLedgerStore(db).SumBetween(context.Background(), models.KindIncome, start, end)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBudgetStore_Upsert(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	created := time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs("u-1", "2024-05").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "month", "amount", "created_at", "updated_at"}).
			AddRow("b-1", "u-1", "2024-05", 800.0, created, time.Now()))

	budget, err := NewGormBudgetStore(db).Upsert(context.Background(), "u-1", "2024-05", 800)
	require.NoError(t, err)
	// 已存在的记录保留原 ID
	assert.Equal(t, "b-1", budget.ID)
	assert.Equal(t, 800.0, budget.Amount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBudgetStore_ListByUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `budgets` WHERE user_id = \\? ORDER BY month DESC").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "month", "amount", "created_at", "updated_at"}).
			AddRow("b-2", "u-1", "2024-06", 500.0, now, now).
			AddRow("b-1", "u-1", "2024-05", 800.0, now, now))

	budgets, err := NewGormBudgetStore(db).ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "2024-06", budgets[0].Month)
	require.NoError(t, mock.ExpectationsWereMet())
}
