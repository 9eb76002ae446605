package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"github.com/google/uuid"
)

// 测试用内存存储，行为与 store 包的实现保持一致

type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]models.User{}}
}

func (s *memoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperr.DuplicateEmail()
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memoryLedgerStore struct {
	mu      sync.Mutex
	entries map[models.LedgerKind][]models.Entry
}

func newMemoryLedgerStore() *memoryLedgerStore {
	return &memoryLedgerStore{entries: map[models.LedgerKind][]models.Entry{}}
}

func (s *memoryLedgerStore) Create(_ context.Context, kind models.LedgerKind, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries[kind] = append(s.entries[kind], *entry)
	return nil
}

func (s *memoryLedgerStore) ListRecent(_ context.Context, kind models.LedgerKind, limit int) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Entry(nil), s.entries[kind]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryLedgerStore) SumBetween(_ context.Context, kind models.LedgerKind, start, end time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, e := range s.entries[kind] {
		if !e.Date.Before(start) && e.Date.Before(end) {
			total += e.Amount
		}
	}
	return total, nil
}

type memoryBudgetStore struct {
	mu      sync.Mutex
	budgets map[string]models.Budget
}

func newMemoryBudgetStore() *memoryBudgetStore {
	return &memoryBudgetStore{budgets: map[string]models.Budget{}}
}

func (s *memoryBudgetStore) Upsert(_ context.Context, userID, month string, amount float64) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "|" + month
	b, ok := s.budgets[key]
	if !ok {
		b = models.Budget{ID: uuid.NewString(), UserID: userID, Month: month, CreatedAt: time.Now()}
	}
	b.Amount = amount
	b.UpdatedAt = time.Now()
	s.budgets[key] = b
	return &b, nil
}

func (s *memoryBudgetStore) ListByUser(_ context.Context, userID string) ([]models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (s *memoryBudgetStore) FindByUserAndMonth(_ context.Context, userID, month string) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[userID+"|"+month]
	if !ok {
		return nil, nil
	}
	return &b, nil
}
