package store

import (
	"context"
	"testing"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Email: "a@b.com", PasswordHash: "hash"}
		require.NoError(mt, NewMongoUserStore(mt.DB).Create(context.Background(), user))
		assert.NotEmpty(mt, user.ID)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: budgeto.users index: email_1",
		}))

		err := NewMongoUserStore(mt.DB).Create(context.Background(), &models.User{Email: "a@b.com"})
		assert.True(mt, apperr.Is(err, apperr.KindDuplicateEmail))
	})

	mt.Run("find by email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "email", Value: "a@b.com"},
			{Key: "passwordHash", Value: "hash"},
		}))

		user, err := NewMongoUserStore(mt.DB).FindByEmail(context.Background(), "a@b.com")
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, "u-1", user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.users", mtest.FirstBatch))

		user, err := NewMongoUserStore(mt.DB).FindByID(context.Background(), "nope")
		require.NoError(mt, err)
		assert.Nil(mt, user)
	})
}

func TestMongoLedgerStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry := &models.Entry{Title: "Lunch", Amount: 12.5, Category: "Food", Date: time.Now()}
		require.NoError(mt, NewMongoLedgerStore(mt.DB).Create(context.Background(), models.KindExpense, entry))
		assert.NotEmpty(mt, entry.ID)
		assert.Equal(mt, "expenses", mt.GetStartedEvent().Command.Lookup("insert").StringValue())
	})

	mt.Run("list recent", func(mt *mtest.T) {
		date := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.incomes", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "i-2"}, {Key: "title", Value: "Bonus"}, {Key: "amount", Value: 500.0}, {Key: "category", Value: "Gift"}, {Key: "date", Value: date}},
			bson.D{{Key: "_id", Value: "i-1"}, {Key: "title", Value: "Salary"}, {Key: "amount", Value: 3000.0}, {Key: "category", Value: "Salary"}, {Key: "date", Value: date.AddDate(0, 0, -19)}},
		))

		entries, err := NewMongoLedgerStore(mt.DB).ListRecent(context.Background(), models.KindIncome, 5)
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, "i-2", entries[0].ID)
		assert.True(mt, entries[0].Date.Equal(date))

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "incomes", cmd.Lookup("find").StringValue())
		assert.Equal(mt, int64(-1), cmd.Lookup("sort", "date").AsInt64())
	})

	mt.Run("sum between", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.expenses", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: 42.5}},
		))

		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
		total, err := NewMongoLedgerStore(mt.DB).SumBetween(context.Background(), models.KindExpense, start, start.AddDate(0, 1, 0))
		require.NoError(mt, err)
		assert.Equal(mt, 42.5, total)
	})

	mt.Run("sum between empty month", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.expenses", mtest.FirstBatch))

		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
		total, err := NewMongoLedgerStore(mt.DB).SumBetween(context.Background(), models.KindExpense, start, start.AddDate(0, 1, 0))
		require.NoError(mt, err)
		assert.Zero(mt, total)
	})
}

func TestMongoBudgetStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "b-1"},
			{Key: "userId", Value: "u-1"},
			{Key: "month", Value: "2024-05"},
			{Key: "amount", Value: 800.0},
		}}))

		budget, err := NewMongoBudgetStore(mt.DB).Upsert(context.Background(), "u-1", "2024-05", 800)
		require.NoError(mt, err)
		assert.Equal(mt, "b-1", budget.ID)
		assert.Equal(mt, 800.0, budget.Amount)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "budgets", cmd.Lookup("findAndModify").StringValue())
		assert.True(mt, cmd.Lookup("upsert").Boolean())
		assert.Equal(mt, "u-1", cmd.Lookup("query", "userId").StringValue())
	})

	mt.Run("list by user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "budgeto.budgets", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "b-2"}, {Key: "userId", Value: "u-1"}, {Key: "month", Value: "2024-06"}, {Key: "amount", Value: 500.0}},
		))

		budgets, err := NewMongoBudgetStore(mt.DB).ListByUser(context.Background(), "u-1")
		require.NoError(mt, err)
		require.Len(mt, budgets, 1)
		assert.Equal(mt, "2024-06", budgets[0].Month)
	})
}
