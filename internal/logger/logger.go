package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger for the given environment. Development gets the
// human-readable console encoder, everything else gets production JSON.
func New(environment string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if environment == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}
