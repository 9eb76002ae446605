package service

import (
	"context"
	"regexp"
	"strings"

	"budgeto/apperr"
	"budgeto/models"
	"budgeto/store"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes bcrypt 只接受 72 字节以内的密码
const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NormalizeEmail 去除首尾空白并转小写，注册与登录使用同一规则
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CredentialService 用户注册与登录校验
type CredentialService struct {
	users store.UserStore
	cost  int
}

func NewCredentialService(users store.UserStore) *CredentialService {
	return &CredentialService{users: users, cost: bcrypt.DefaultCost}
}

// Register 注册用户，邮箱重复返回 DuplicateEmail
// 预检查之外，唯一索引冲突同样映射为 DuplicateEmail
func (s *CredentialService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.Validation("Please provide a valid email")
	}
	if len(password) > maxPasswordBytes {
		return nil, apperr.Validation("Password cannot exceed 72 bytes")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.DuplicateEmail()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Storage("Failed to sign up", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验邮箱密码，不区分“用户不存在”和“密码错误”
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return user, nil
}

func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *CredentialService) FindByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, nil
	}
	return s.users.FindByID(ctx, id)
}

// Profile 当前登录用户，会话有效但用户已不存在时返回 NotFound
func (s *CredentialService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}
