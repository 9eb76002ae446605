package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad month")))
	assert.Equal(t, KindDuplicateEmail, KindOf(DuplicateEmail()))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("Unauthorized")))

	// 包装后仍能识别
	wrapped := fmt.Errorf("save budget: %w", Validation("Invalid month or amount"))
	assert.True(t, Is(wrapped, KindValidation))

	// 普通错误按存储错误处理
	assert.Equal(t, KindStorage, KindOf(errors.New("connection refused")))
	assert.False(t, Is(nil, KindStorage))
}

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := Storage("Failed to fetch expenses", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Failed to fetch expenses")
	assert.Contains(t, err.Error(), "i/o timeout")
}
