// Package di wires the application together.
package di

import (
	"context"
	"net/http"

	"handwash-backend/application/ports"
	"handwash-backend/application/services"
	"handwash-backend/infrastructure/alerting"
	"handwash-backend/infrastructure/config"
	dynamostore "handwash-backend/infrastructure/persistence/dynamodb"
	webpush "handwash-backend/infrastructure/push"
	"handwash-backend/infrastructure/secrets"
	"handwash-backend/interfaces/http/rest"
	"handwash-backend/interfaces/http/rest/handlers"
	"handwash-backend/pkg/auth"
	apperrors "handwash-backend/pkg/errors"
	"handwash-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awssecretsmanager "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideSecretsManagerClient creates a Secrets Manager client
func ProvideSecretsManagerClient(awsCfg aws.Config) *awssecretsmanager.Client {
	return awssecretsmanager.NewFromConfig(awsCfg)
}

// ProvideStore creates the partitioned key-value store
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.KeyValueStore {
	return dynamostore.NewStore(client, cfg.TableName, cfg.IndexName, logger)
}

// ProvideVAPIDProvider creates the push signing-key provider
func ProvideVAPIDProvider(client *awssecretsmanager.Client, cfg *config.Config) *secrets.VAPIDProvider {
	return secrets.NewVAPIDProvider(client, cfg.VAPIDSecretName, secrets.VAPIDKeys{
		Subject:    cfg.VAPIDSubject,
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
	})
}

// ProvideDispatcher creates the Web Push dispatcher
func ProvideDispatcher(vapid *secrets.VAPIDProvider, logger *zap.Logger) ports.PushDispatcher {
	return webpush.NewWebPushDispatcher(vapid, logger)
}

// ProvideMetrics creates the metrics emitter. Metrics are opt-in; local
// runs get the no-op emitter.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) ports.MetricsEmitter {
	if !cfg.EnableMetrics {
		return observability.NoopMetrics{}
	}
	return observability.NewCloudWatchMetrics(client, cfg.MetricsNamespace)
}

// ProvideAlerts creates the ops alert notifier. Without a configured bus
// the notifier degrades to a no-op.
func ProvideAlerts(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) apperrors.AlertNotifier {
	if cfg.AlertBusName == "" {
		return alerting.NewEventBridgeNotifier(nil, "", cfg.AlertSource, logger)
	}
	return alerting.NewEventBridgeNotifier(client, cfg.AlertBusName, cfg.AlertSource, logger)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(logger *zap.Logger, alerts apperrors.AlertNotifier, cfg *config.Config) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, alerts, cfg.IsDevelopment())
}

// ProvideJWTValidator creates the bearer-token validator for standalone
// server mode. Under API Gateway the authorizer owns validation, so a nil
// validator is fine there.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	})
}

// ProvideFamilyService creates the family service
func ProvideFamilyService(store ports.KeyValueStore, logger *zap.Logger) *services.FamilyService {
	return services.NewFamilyService(store, logger)
}

// ProvideEventService creates the event service
func ProvideEventService(store ports.KeyValueStore, logger *zap.Logger) *services.EventService {
	return services.NewEventService(store, logger)
}

// ProvidePushService creates the push service
func ProvidePushService(store ports.KeyValueStore, logger *zap.Logger) *services.PushService {
	return services.NewPushService(store, logger)
}

// ProvideNotificationService creates the notification service
func ProvideNotificationService(
	store ports.KeyValueStore,
	push *services.PushService,
	dispatcher ports.PushDispatcher,
	logger *zap.Logger,
) *services.NotificationService {
	return services.NewNotificationService(store, push, dispatcher, logger)
}

// ProvideReminderService creates the reminder service
func ProvideReminderService(
	push *services.PushService,
	events *services.EventService,
	dispatcher ports.PushDispatcher,
	metrics ports.MetricsEmitter,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ReminderService {
	return services.NewReminderService(push, events, dispatcher, metrics, cfg.TZOffsetMinutes, logger)
}

// ProvideRouter assembles the HTTP router from the handlers
func ProvideRouter(
	cfg *config.Config,
	families *services.FamilyService,
	events *services.EventService,
	push *services.PushService,
	notifications *services.NotificationService,
	errs *apperrors.ErrorHandler,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(rest.RouterConfig{
		Families:     handlers.NewFamilyHandler(families, errs, logger),
		Events:       handlers.NewEventHandler(events, errs, logger),
		Push:         handlers.NewPushHandler(push, notifications, errs, logger),
		Profile:      handlers.NewProfileHandler(families, errs, logger),
		JWTValidator: validator,
		Logger:       logger,
		LambdaMode:   cfg.IsLambda,
		EnableCORS:   cfg.EnableCORS,
	})
}
