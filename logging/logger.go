package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger 全局日志实例，Init 之前使用 logrus 默认配置
var Logger = logrus.New()

// Init 根据运行模式和级别初始化日志
// release 模式输出 JSON，其他模式输出带完整时间戳的文本
func Init(mode, level string) {
	InitWithOutput(mode, level, os.Stdout)
}

// InitWithOutput 同 Init，可指定输出目标
func InitWithOutput(mode, level string, out io.Writer) {
	l := logrus.New()
	if mode == "release" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetLevel(parseLevel(level))
	l.SetOutput(out)
	Logger = l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
