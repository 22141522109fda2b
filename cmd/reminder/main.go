// The reminder binary runs as a scheduled Lambda: one invocation sends the
// daily nudge to every subscriber who has not logged a wash today.
package main

import (
	"context"
	"log"

	"handwash-backend/infrastructure/config"
	"handwash-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler runs one reminder pass. Per-family failures are absorbed into
// the run stats; only a failure to enumerate subscriptions aborts the
// invocation so the schedule retries it.
func Handler(ctx context.Context, event events.CloudWatchEvent) error {
	stats, err := container.Reminder.Run(ctx)
	if err != nil {
		container.Logger.Error("Reminder run failed", zap.Error(err))
		return err
	}

	container.Logger.Info("Reminder run completed",
		zap.Int("families", stats.Families),
		zap.Int("sent", stats.Sent),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return nil
}

func main() {
	lambda.Start(Handler)
}
