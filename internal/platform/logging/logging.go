// Package logging 根据配置构造进程级 slog.Logger。
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aegis-sign/ledger-facade/internal/config"
	"github.com/aegis-sign/ledger-facade/internal/platform/privacylog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New 返回经过敏感字段屏蔽的 logger 以及需要在退出时关闭的输出。
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	out, closer := output(cfg)
	return slog.New(privacylog.WrapHandler(newHandler(out, cfg.Format, level))), closer, nil
}

// NewWithWriter 用于测试与嵌入场景，直接写入 w。
func NewWithWriter(w io.Writer, format string, level slog.Level) *slog.Logger {
	return slog.New(privacylog.WrapHandler(newHandler(w, format, level)))
}

// ParseLevel 解析 debug/info/warn/error，空字符串视为 info。
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func output(cfg config.LogConfig) (io.Writer, io.Closer) {
	if strings.TrimSpace(cfg.File) == "" {
		return os.Stdout, nopCloser{}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return rotator, rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
