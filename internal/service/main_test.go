package service

import (
	"os"
	"testing"

	"github.com/m3rciful/storebot/core/logger"
)

func TestMain(m *testing.M) {
	// The package loggers are nil until Init runs (normally via bootstrap);
	// Purchase dereferences logger.SVCPurchases unconditionally.
	_ = logger.Init(logger.Options{Level: "error"})
	os.Exit(m.Run())
}
