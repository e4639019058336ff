package main

import (
	"os"

	"github.com/tokamak-network/chainops-backend/cmd"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Init()

	if err := cmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
