//go:build wireinject
// +build wireinject

package di

import (
	"context"
	"net/http"

	"handwash-backend/application/services"
	"handwash-backend/infrastructure/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Router   http.Handler
	Reminder *services.ReminderService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideSecretsManagerClient,
	ProvideStore,
	ProvideVAPIDProvider,
	ProvideDispatcher,
	ProvideMetrics,
	ProvideAlerts,
	ProvideErrorHandler,
	ProvideJWTValidator,
	ProvideFamilyService,
	ProvideEventService,
	ProvidePushService,
	ProvideNotificationService,
	ProvideReminderService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
