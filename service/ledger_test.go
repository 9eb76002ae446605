package service

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountPtr(v float64) *float64 {
	return &v
}

func TestBuildEntry(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.Local)

	entry, err := BuildEntry(models.KindExpense, EntryInput{
		Title:    "  Lunch  ",
		Amount:   amountPtr(12.5),
		Category: "Food",
		Date:     "2024-05-01",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", entry.Title)
	assert.Equal(t, 12.5, entry.Amount)
	assert.Equal(t, "Food", entry.Category)
	assert.True(t, entry.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)))

	// 类别为空默认 Other，日期为空取当前时间，金额允许为 0
	entry, err = BuildEntry(models.KindIncome, EntryInput{Title: "Refund", Amount: amountPtr(0)}, now)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, entry.Category)
	assert.True(t, entry.Date.Equal(now))
}

func TestBuildEntry_Validation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		kind  models.LedgerKind
		input EntryInput
	}{
		{"invalid category", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(1), Category: "Invalid"}},
		{"income category on expense", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(1), Category: "Salary"}},
		{"expense category on income", models.KindIncome, EntryInput{Title: "x", Amount: amountPtr(1), Category: "Food"}},
		{"blank title", models.KindExpense, EntryInput{Title: "   ", Amount: amountPtr(1)}},
		{"missing amount", models.KindExpense, EntryInput{Title: "x"}},
		{"negative amount", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(-0.01)}},
		{"infinite amount", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(math.Inf(1))}},
		{"nan amount", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(math.NaN())}},
		{"title too long", models.KindExpense, EntryInput{Title: strings.Repeat("a", 101), Amount: amountPtr(1)}},
		{"bad date", models.KindExpense, EntryInput{Title: "x", Amount: amountPtr(1), Date: "20/05/2024"}},
		{"unknown kind", models.LedgerKind("transfer"), EntryInput{Title: "x", Amount: amountPtr(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildEntry(tt.kind, tt.input, now)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}

	// 100 个字符（按 rune 计）正好允许
	_, err := BuildEntry(models.KindExpense, EntryInput{Title: strings.Repeat("餐", 100), Amount: amountPtr(1)}, now)
	assert.NoError(t, err)
}

func TestParseEntryDate(t *testing.T) {
	d, err := ParseEntryDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Local, d.Location())
	assert.Equal(t, 29, d.Day())

	d, err = ParseEntryDate("2024-05-01T08:30:00Z")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)))

	_, err = ParseEntryDate("yesterday")
	assert.Error(t, err)
}

func TestLedgerService_CreateAndList(t *testing.T) {
	ledger := newMemoryLedgerStore()
	s := NewLedgerService(ledger, 2)
	ctx := context.Background()

	for _, d := range []string{"2024-05-01", "2024-05-20", "2024-05-10"} {
		_, err := s.Create(ctx, models.KindExpense, EntryInput{Title: "e " + d, Amount: amountPtr(1), Date: d})
		require.NoError(t, err)
	}

	entries, err := s.ListRecent(ctx, models.KindExpense)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e 2024-05-20", entries[0].Title)
	assert.Equal(t, "e 2024-05-10", entries[1].Title)

	income, err := s.ListRecent(ctx, models.KindIncome)
	require.NoError(t, err)
	assert.Empty(t, income)

	_, err = s.Create(ctx, models.KindExpense, EntryInput{Title: "bad", Amount: amountPtr(1), Category: "Invalid"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	all, _ := ledger.ListRecent(ctx, models.KindExpense, 0)
	assert.Len(t, all, 3)
}
