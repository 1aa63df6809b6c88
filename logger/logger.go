package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. Setting MELODEX_DEBUG switches to the
// development config with debug-level output.
func New() *zap.Logger {
	if os.Getenv("MELODEX_DEBUG") != "" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}
