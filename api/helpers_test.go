package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"budgeto/middleware"
	"budgeto/service"
	"budgeto/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (store.Stores, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return store.NewGormStores(gormDB), mock, func() {
		sqlDB.Close()
	}
}

func newTestSessions() *middleware.SessionManager {
	return middleware.NewSessionManager("test-session-secret", 7*24*time.Hour, "budgeto_session")
}

func newTestLedgerService(stores store.Stores) *service.LedgerService {
	return service.NewLedgerService(stores.Ledger, 100)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
