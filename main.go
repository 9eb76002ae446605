package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"budgeto/config"
	"budgeto/database"
	"budgeto/logging"
	"budgeto/middleware"
	"budgeto/router"
	"budgeto/service"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// @title Budgeto 记账 API
// @version 1.0
// @description 个人记账服务：支出、收入、月度预算、汇总与预测
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("budgeto v%s\n", version)
		return
	}

	_ = godotenv.Load()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logging.Logger.Fatalf("加载配置失败: %v", err)
	}
	logging.Init(cfg.Server.Mode, cfg.Log.Level)

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		logging.Logger.Infof("命令行指定端口: %s", port)
	}

	config.PrintConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Logger.Fatalf("服务异常退出: %v", err)
	}
	logging.Logger.Info("服务已停止")
}

func run(ctx context.Context, cfg *config.Config) error {
	stores, closeStores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	sessions := middleware.NewSessionManager(cfg.Session.Secret, cfg.Session.ExpireTime, cfg.Session.CookieName)
	r := router.SetupRouter(cfg, router.Deps{
		Sessions:    sessions,
		Credentials: service.NewCredentialService(stores.Users),
		Ledger:      service.NewLedgerService(stores.Ledger, cfg.Ledger.ListLimit),
		Budgets:     service.NewBudgetService(stores.Budgets),
		Aggregation: service.NewAggregationService(stores.Ledger, stores.Budgets),
		Mailer:      service.NewEmailService(&cfg.Email),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Logger.Infof("服务已启动: http://localhost%s", cfg.Server.Port)
		logging.Logger.Infof("Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Logger.Info("正在关闭服务...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
