package utils

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// InitLogger builds the process logger. mode "prod"/"production" gives JSON
// output at info level, anything else the development console encoder.
func InitLogger(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return err
	}
	SetLogger(z.Sugar())
	return nil
}

// SetLogger replaces the process logger; tests use it with zaptest/observer.
func SetLogger(l *zap.SugaredLogger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

// L returns the process logger.
func L() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

func SyncLogger() {
	_ = L().Sync()
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	L().Infow(message, "module", strings.ToLower(module), "action", action, "request_id", strings.TrimSpace(requestID))
}

// LogWarn is LogEvent at warning level with the causing error attached.
func LogWarn(requestID, module, action, message string, err error) {
	L().Warnw(message, "module", strings.ToLower(module), "action", action, "request_id", strings.TrimSpace(requestID), "error", err)
}
