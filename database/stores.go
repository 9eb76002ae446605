package database

import (
	"context"
	"fmt"

	"budgeto/config"
	"budgeto/logging"
	"budgeto/store"
)

// OpenStores 按 database.driver 打开存储，返回的 close 函数释放连接
func OpenStores(ctx context.Context, cfg *config.Config) (store.Stores, func(), error) {
	switch cfg.Database.Driver {
	case "mongo":
		m, err := OpenMongo(ctx, cfg)
		if err != nil {
			return store.Stores{}, nil, err
		}
		return store.NewMongoStores(m.DB), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := m.Close(closeCtx); err != nil {
				logging.Logger.Warnf("关闭 MongoDB 连接失败: %v", err)
			}
		}, nil
	case "mysql":
		db, err := OpenMySQL(cfg)
		if err != nil {
			return store.Stores{}, nil, err
		}
		return store.NewGormStores(db), func() {
			if err := CloseMySQL(db); err != nil {
				logging.Logger.Warnf("关闭数据库连接失败: %v", err)
			}
		}, nil
	default:
		return store.Stores{}, nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
}
