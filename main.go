package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/nats-io/nats.go"

	"github.com/agriconnect/service-payments/config"
	"github.com/agriconnect/service-payments/service/coreapi"
	"github.com/agriconnect/service-payments/service/events"
	"github.com/agriconnect/service-payments/service/handler"
	"github.com/agriconnect/service-payments/service/models"
	"github.com/agriconnect/service-payments/service/router"
	"github.com/pitabwire/frame"
	_ "gorm.io/driver/postgres"
)

func main() {
	serviceName := "service_payments"
	paymentConfig, err := frame.ConfigFromEnv[config.PaymentConfig]()
	if err != nil {
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	ctx, service := frame.NewService(serviceName, frame.WithConfig(&paymentConfig), frame.WithDatastore())
	defer service.Stop(ctx)
	logger := service.Log(ctx).WithField("type", "main")

	if paymentConfig.DO_MIGRATION {
		err = service.MigrateDatastore(ctx, paymentConfig.GetDatabaseMigrationPath(),
			&models.Payment{}, &models.PaymentStatus{}, &models.FarmerAccount{}, &models.Transaction{})
		if err != nil {
			logger.WithError(err).Fatal("could not migrate successfully")
		}
		logger.Info("Migrations completed successfully")
		return
	}

	// Ensure all required tables exist
	db := service.DB(ctx, false)
	if db == nil {
		logger.Fatal("Database connection is nil - check DATABASE_URL and database availability")
		return
	}
	if err = db.AutoMigrate(&models.Payment{}, &models.PaymentStatus{}, &models.FarmerAccount{}, &models.Transaction{}); err != nil {
		logger.WithError(err).Fatal("Failed to auto-migrate database tables - cannot continue")
		return
	}

	gatewayClient := coreapi.New(paymentConfig.PaystackSecretKey, paymentConfig.PaystackPublicKey, paymentConfig.PaystackBaseURL)

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", paymentConfig.RedisHost, paymentConfig.RedisPort),
	})
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("error closing redis client")
		}
	}()

	ps := &handler.PaymentServer{
		Service:     service,
		Cfg:         &paymentConfig,
		Client:      gatewayClient,
		RedisClient: redisClient,
	}
	paymentRouter := router.NewRouter(ps)

	serviceOptions := []frame.Option{
		frame.WithHTTPHandler(paymentRouter),
		frame.WithRegisterEvents(
			&events.PaymentStatusSave{Service: service},
			&events.TransactionSave{Service: service},
			&events.CheckoutCallback{Service: service, Cfg: &paymentConfig, Client: gatewayClient},
		),
	}

	initiatedTopic := paymentConfig.PaymentInitiatedTopic
	settledTopic := paymentConfig.PaymentSettledTopic

	natsURL := resolveBrokerURL(ctx, service, paymentConfig.NATS_URL)
	if strings.HasPrefix(natsURL, "mem://") {
		serviceOptions = append(serviceOptions,
			frame.WithRegisterPublisher(initiatedTopic, "mem://"+initiatedTopic),
			frame.WithRegisterPublisher(settledTopic, "mem://"+settledTopic),
		)
	} else {
		serviceOptions = append(serviceOptions,
			frame.WithRegisterPublisher(initiatedTopic, withSubject(natsURL, initiatedTopic)),
			frame.WithRegisterPublisher(settledTopic, withSubject(natsURL, settledTopic)),
		)
	}

	service.Init(ctx, serviceOptions...)

	logger.WithField("http port", paymentConfig.HTTPServerPort).Info("Initiating server operations")
	if err = service.Run(ctx, ":8080"); err != nil {
		logger.WithError(err).Fatal("could not run server")
	}
}

// resolveBrokerURL probes the configured NATS server before any
// publisher is registered against it, falling back to in-memory
// pubsub so the service still comes up when the broker is absent.
func resolveBrokerURL(ctx context.Context, service *frame.Service, rawURL string) string {
	logger := service.Log(ctx).WithField("type", "broker")

	if strings.HasPrefix(rawURL, "mem://") {
		logger.Info("using in-memory pubsub directly")
		return rawURL
	}
	if !strings.HasPrefix(rawURL, "nats://") {
		logger.Warn("broker URL missing 'nats://' prefix; assuming host:port format")
		rawURL = "nats://" + rawURL
	}

	probeURL := rawURL
	if idx := strings.Index(probeURL, "?"); idx >= 0 {
		probeURL = probeURL[:idx]
	}

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		nc, err := nats.Connect(probeURL)
		if err != nil {
			logger.WithError(err).WithField("attempt", i+1).Warn("failed to connect to NATS, retrying after delay")
			time.Sleep(2 * time.Second)
			continue
		}
		nc.Close()
		logger.Info("successfully connected to NATS server")
		return rawURL
	}

	logger.WithField("retries", maxRetries).Warn("could not reach NATS - falling back to memory-based pubsub")
	return "mem://"
}

// withSubject sets the subject query parameter on a NATS URL,
// replacing any subject already present.
func withSubject(baseURL, subject string) string {
	url := baseURL
	if strings.Contains(url, "subject=") {
		parts := strings.Split(url, "?")
		if len(parts) == 2 {
			params := strings.Split(parts[1], "&")
			kept := make([]string, 0, len(params))
			for _, p := range params {
				if !strings.HasPrefix(p, "subject=") {
					kept = append(kept, p)
				}
			}
			url = parts[0]
			if len(kept) > 0 {
				url += "?" + strings.Join(kept, "&")
			}
		}
	}
	if strings.Contains(url, "?") {
		return url + "&subject=" + subject
	}
	return url + "?subject=" + subject
}
