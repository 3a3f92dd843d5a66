package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"github.com/mrled/suns/msgsvc/internal/app"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/lambdahandlers/httpapi"
	"github.com/mrled/suns/msgsvc/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logger())
	log = logger.WithExecutable(log, "lambda")
	logger.SetDefault(log)

	log.Info("Starting Lambda handler",
		slog.String("env", cfg.EnvName),
		slog.String("prefix", cfg.APIPrefix))

	gin.SetMode(gin.ReleaseMode)
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize httpapi handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := httpapi.NewHandler(a.Server.Handler(), log)
	lambda.Start(handler.Handle)
}
