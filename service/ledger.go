package service

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"budgeto/apperr"
	"budgeto/models"
	"budgeto/store"
)

// EntryInput 新增账目的输入，Amount 为 nil 表示未填写
type EntryInput struct {
	Title    string
	Amount   *float64
	Category string
	Date     string
}

// LedgerService 支出/收入账目
type LedgerService struct {
	ledger    store.LedgerStore
	listLimit int
}

func NewLedgerService(ledger store.LedgerStore, listLimit int) *LedgerService {
	if listLimit <= 0 {
		listLimit = 100
	}
	return &LedgerService{ledger: ledger, listLimit: listLimit}
}

// Create 校验后写入，类别必须属于该类型的枚举
func (s *LedgerService) Create(ctx context.Context, kind models.LedgerKind, in EntryInput) (*models.Entry, error) {
	entry, err := BuildEntry(kind, in, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Create(ctx, kind, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecent 最近的账目，按账目日期倒序，最多 listLimit 条
func (s *LedgerService) ListRecent(ctx context.Context, kind models.LedgerKind) ([]models.Entry, error) {
	return s.ledger.ListRecent(ctx, kind, s.listLimit)
}

// ListForExport 导出用，条数上限由调用方决定
func (s *LedgerService) ListForExport(ctx context.Context, kind models.LedgerKind, limit int) ([]models.Entry, error) {
	return s.ledger.ListRecent(ctx, kind, limit)
}

// BuildEntry 校验输入并生成待写入的账目
func BuildEntry(kind models.LedgerKind, in EntryInput, now time.Time) (*models.Entry, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("Unknown ledger kind")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || in.Amount == nil {
		return nil, apperr.Validation("All fields are required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, apperr.Validation("Title cannot exceed 100 characters")
	}

	amount := *in.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperr.Validation("Amount must be a number")
	}
	if amount < 0 {
		return nil, apperr.Validation("Amount cannot be negative")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.CategoryOther
	}
	if !kind.HasCategory(category) {
		return nil, apperr.Validation("Invalid category")
	}

	date := now
	if strings.TrimSpace(in.Date) != "" {
		parsed, err := ParseEntryDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	return &models.Entry{
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
	}, nil
}

// ParseEntryDate 支持 2006-01-02 与 RFC3339，纯日期按服务器本地时区解析
func ParseEntryDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(time.Local), nil
	}
	return time.Time{}, apperr.Validation("Invalid date")
}
