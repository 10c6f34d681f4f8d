package api

import (
	"os"
	"testing"

	"github.com/m3rciful/storebot/core/logger"
)

func TestMain(m *testing.M) {
	// The package loggers are nil until Init runs (normally via bootstrap);
	// requestLogger dereferences logger.API unconditionally.
	_ = logger.Init(logger.Options{Level: "error"})
	os.Exit(m.Run())
}
