package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"budgeto/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultSessionSecret 未配置密钥时使用的开发默认值，生产环境必须覆盖
const DefaultSessionSecret = "dev-secret-change-me"

//go:embed default.yaml
var DefaultConfigYAML []byte

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Email    EmailConfig    `mapstructure:"email"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSOrigins 允许携带凭据跨域访问的来源，需与请求 Origin 完全一致
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置，Driver 取值 mysql 或 mongo
type DatabaseConfig struct {
	Driver string      `mapstructure:"driver"`
	MySQL  MySQLConfig `mapstructure:"mysql"`
	Mongo  MongoConfig `mapstructure:"mongo"`
}

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// MongoConfig MongoDB 连接配置
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	DBName         string        `mapstructure:"dbname"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

// SessionConfig 会话令牌配置
type SessionConfig struct {
	Secret      string        `mapstructure:"secret"`
	CookieName  string        `mapstructure:"cookie_name"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// AuthConfig 登录注册限流配置
type AuthConfig struct {
	RateLimitAttempts int           `mapstructure:"rate_limit_attempts"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// LedgerConfig 账目列表与导出配置
type LedgerConfig struct {
	ListLimit   int `mapstructure:"list_limit"`
	ExportLimit int `mapstructure:"export_limit"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logging.Logger.Warnf("无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			logging.Logger.Infof("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/budgeto")
		externalViper.AddConfigPath("$HOME/.budgeto")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				logging.Logger.Warnf("合并外部配置失败: %v", err)
			} else {
				logging.Logger.Infof("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("BUDGETO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容旧部署使用的环境变量名
	_ = v.BindEnv("session.secret", "BUDGETO_SESSION_SECRET", "AUTH_SECRET")
	_ = v.BindEnv("database.mongo.uri", "BUDGETO_DATABASE_MONGO_URI", "MONGODB_URI")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()

	GlobalConfig = &cfg

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Session.Secret == "" {
		logging.Logger.Warn("未配置 session.secret（AUTH_SECRET），使用不安全的开发默认密钥")
		cfg.Session.Secret = DefaultSessionSecret
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "budgeto_session"
	}
	if cfg.Session.ExpireHours <= 0 {
		cfg.Session.ExpireHours = 24 * 7
	}
	cfg.Session.ExpireTime = time.Duration(cfg.Session.ExpireHours) * time.Hour

	if cfg.Ledger.ListLimit <= 0 {
		cfg.Ledger.ListLimit = 100
	}
	if cfg.Ledger.ExportLimit <= 0 {
		cfg.Ledger.ExportLimit = 1000
	}
	if cfg.Auth.RateLimitAttempts <= 0 {
		cfg.Auth.RateLimitAttempts = 10
	}
	if cfg.Auth.RateLimitWindow <= 0 {
		cfg.Auth.RateLimitWindow = time.Minute
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
}

// IsRelease 是否为生产模式
func (cfg *Config) IsRelease() bool {
	return cfg != nil && cfg.Server.Mode == "release"
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
// GlobalConfig 为空时视为开发环境
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig.IsRelease() {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	logging.Logger.WithFields(logrus.Fields{
		"port":   cfg.Server.Port,
		"mode":   cfg.Server.Mode,
		"driver": cfg.Database.Driver,
		"email":  cfg.Email.Enabled,
	}).Info("当前配置")
	switch cfg.Database.Driver {
	case "mongo":
		logging.Logger.Infof("  数据库: mongo/%s", cfg.Database.Mongo.DBName)
	default:
		logging.Logger.Infof("  数据库: %s@%s:%s/%s",
			cfg.Database.MySQL.Username,
			cfg.Database.MySQL.Host,
			cfg.Database.MySQL.Port,
			cfg.Database.MySQL.DBName)
	}
}
