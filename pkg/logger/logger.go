package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development mode gets console encoding
// with debug level enabled, everything else gets JSON at info.
func New(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
