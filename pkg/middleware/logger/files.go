package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logDir is where NewLog writes rotated files. LOG_DIR overrides it.
func logDir() string {
	dir := strings.TrimSpace(os.Getenv("LOG_DIR"))
	if dir == "" {
		dir = "log"
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// logLevel reads LOG_LEVEL (debug, info, warn, error). Default info.
func logLevel() zapcore.Level {
	lvl := zapcore.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		_ = lvl.Set(v)
	}
	return lvl
}

// NewLog returns a JSON logger that tees to stdout and a rotated file named n
// under the log directory.
func NewLog(n string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir(), n),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	lvl := logLevel()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, lvl),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(os.Stdout), lvl),
	)
	return zap.New(core)
}

var (
	accessOnce sync.Once
	accessMu   sync.RWMutex
	accessLog  *zap.Logger
)

func accessLogger() *zap.Logger {
	accessOnce.Do(func() {
		accessMu.Lock()
		if accessLog == nil {
			accessLog = NewLog("http-access.log")
		}
		accessMu.Unlock()
	})
	accessMu.RLock()
	defer accessMu.RUnlock()
	return accessLog
}

// SetAccessLogger lets tests/CLIs override the access logger.
func SetAccessLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	accessMu.Lock()
	accessLog = l
	accessMu.Unlock()
}
