package database

import (
	"fmt"

	"budgeto/config"
	"budgeto/logging"
	"budgeto/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMySQL 初始化 MySQL 连接池并迁移表结构
// 返回的 *gorm.DB 在进程内复用，由调用方注入各个 store
func OpenMySQL(cfg *config.Config) (*gorm.DB, error) {
	c := cfg.Database.MySQL
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.Charset,
	)

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	logging.Logger.Info("MySQL 数据库初始化成功")
	return db, nil
}

// Migrate 自动迁移表结构
// 支出与收入共用 models.Entry，分别落在 expenses / incomes 表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Budget{}); err != nil {
		return err
	}
	for _, kind := range []models.LedgerKind{models.KindExpense, models.KindIncome} {
		if err := db.Table(kind.TableName()).AutoMigrate(&models.Entry{}); err != nil {
			return err
		}
	}
	return nil
}

// CloseMySQL 关闭底层连接池
func CloseMySQL(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
