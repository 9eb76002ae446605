package router

import (
	"net/http"
	"strings"

	"budgeto/api"
	"budgeto/config"
	_ "budgeto/docs"
	"budgeto/middleware"
	"budgeto/models"
	"budgeto/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖，由 main 组装后注入
type Deps struct {
	Sessions    *middleware.SessionManager
	Credentials *service.CredentialService
	Ledger      *service.LedgerService
	Budgets     *service.BudgetService
	Aggregation *service.AggregationService
	Mailer      api.WelcomeMailer
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))
	// 所有路由都解析会话，需要登录的接口再加 RequireSession
	r.Use(deps.Sessions.LoadSession())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	v1 := r.Group("/api")
	{
		authHandler := api.NewAuthHandler(deps.Credentials, deps.Sessions, deps.Mailer)
		limiter := middleware.AuthRateLimit(cfg.Auth.RateLimitAttempts, cfg.Auth.RateLimitWindow)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", limiter, authHandler.SignUp)
			auth.POST("/signin", limiter, authHandler.SignIn)
			auth.POST("/signout", authHandler.SignOut)
			auth.GET("/profile", middleware.RequireSession(), authHandler.Profile)
		}

		// 账目接口不区分用户，匿名可用
		expenseHandler := api.NewLedgerHandler(models.KindExpense, deps.Ledger)
		v1.POST("/expenses", expenseHandler.Create)
		v1.GET("/expenses", expenseHandler.List)

		incomeHandler := api.NewLedgerHandler(models.KindIncome, deps.Ledger)
		v1.POST("/income", incomeHandler.Create)
		v1.GET("/income", incomeHandler.List)

		v1.GET("/categories", api.Categories)
		v1.POST("/receipts/parse", api.ParseReceipt)

		summaryHandler := api.NewSummaryHandler(deps.Aggregation)
		v1.GET("/monthly-summary", summaryHandler.MonthlySummary)
		v1.GET("/predictions", summaryHandler.Predictions)

		budgetHandler := api.NewBudgetHandler(deps.Budgets)
		v1.GET("/budgets", budgetHandler.List)
		v1.POST("/budgets", middleware.RequireSession(), budgetHandler.Upsert)

		exportHandler := api.NewExportHandler(deps.Ledger, cfg.Ledger.ExportLimit)
		export := v1.Group("/export")
		{
			export.GET("/excel", exportHandler.ExportExcel)
			export.GET("/csv", exportHandler.ExportCSV)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
// 仅对白名单中的 Origin 回显并允许携带 Cookie，其他来源不返回 Allow-Origin
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			allowed[origin] = true
		}
	}

	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		if origin := c.GetHeader("Origin"); origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
