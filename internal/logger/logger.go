package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide production logger.
func New(ginMode string) (*zap.Logger, error) {
	if ginMode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
