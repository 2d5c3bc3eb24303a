// Package logging 提供基于 zerolog 的全局结构化日志。
//
// 使用方式：
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	log := logging.Component("store")
//	log.Warn().Str("item_id", id).Int("len", n).Msg("vector length mismatch")
//
// 库代码只通过 Component 取子 logger，不直接写 stdout。
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace / debug / info / warn / error / disabled，默认 info
	Level string

	// Format: json / console，默认 json
	Format string

	// Output 默认 os.Stderr
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

func init() {
	configure(Config{})
}

// Init 按配置重建全局 logger，可重复调用。
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	configure(cfg)
}

func configure(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	logger = zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel 把字符串级别转为 zerolog.Level，无法识别时返回 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger 返回全局 logger 的副本。
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component 返回带 component 字段的子 logger。
func Component(name string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", name).Logger()
}

type runIDKey struct{}

// NewRunID 生成批量任务的关联 ID（UUID 前 8 位）。
func NewRunID() string {
	return uuid.New().String()[:8]
}

// WithRunID 把 run_id 写入 context。
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID 从 context 取 run_id，不存在时返回空串。
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Ctx 在 l 的基础上附加 context 中的 run_id。
func Ctx(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	if id := RunID(ctx); id != "" {
		return l.With().Str("run_id", id).Logger()
	}
	return l
}
