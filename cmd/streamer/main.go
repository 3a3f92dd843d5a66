package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/lambdahandlers/streamer"
	"github.com/mrled/suns/msgsvc/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logger())
	log = logger.WithExecutable(log, "streamer")
	logger.SetDefault(log)

	handler, err := streamer.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize streamer handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("Starting DynamoDB Streams Lambda handler")
	lambda.Start(handler.Handle)
}
