package components

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ledger-api/internal/api/middleware"
	"ledger-api/internal/api/routes"
	"ledger-api/internal/config"
	"ledger-api/internal/engine"
	"ledger-api/internal/infrastructure/events"
	"ledger-api/internal/infrastructure/messaging"
	"ledger-api/internal/infrastructure/messaging/kafka"
	"ledger-api/internal/pkg/logging"

	"github.com/gin-gonic/gin"
)

// Container holds all application components and their dependencies
type Container struct {
	Config         *config.Config
	Engine         *engine.Engine
	EventBroker    *events.Broker
	EventPublisher messaging.EventPublisher
	Consumer       *messaging.TransactionConsumer
	Router         *gin.Engine
	Server         *http.Server
}

var (
	instance     *Container
	instanceOnce sync.Once
	instanceErr  error
)

// GetInstance returns the singleton container instance.
func GetInstance() (*Container, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = newContainer()
	})
	return instance, instanceErr
}

// New creates and initializes all application components.
func New() (*Container, error) {
	return GetInstance()
}

func newContainer() (*Container, error) {
	container := &Container{}

	container.Config = config.Load()
	logging.Init(container.Config)

	container.Engine = engine.New()
	container.EventBroker = events.GetBroker()

	if err := container.initEventPublisher(); err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	if err := container.initConsumer(); err != nil {
		return nil, fmt.Errorf("failed to initialize consumer: %w", err)
	}

	if err := container.initServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	logging.Info("All components initialized successfully", nil)
	return container, nil
}

// initEventPublisher sets up the Kafka event publisher
func (c *Container) initEventPublisher() error {
	// Kafka can be disabled outright with KAFKA_ENABLED=false.
	if os.Getenv("KAFKA_ENABLED") == "false" {
		logging.Info("Kafka disabled, using no-op event publisher", nil)
		c.EventPublisher = messaging.NewNoOpEventPublisher()
		return nil
	}

	kafkaConfig := kafka.NewConfigFromEnv()

	var publisher messaging.EventPublisher
	var err error
	if os.Getenv("KAFKA_ASYNC") == "true" {
		publisher, err = messaging.NewAsyncKafkaEventPublisher(kafkaConfig)
	} else {
		publisher, err = messaging.NewKafkaEventPublisher(kafkaConfig)
	}
	if err != nil {
		// Fall back to no-op so the API still starts without Kafka.
		logging.Warn("Failed to initialize Kafka, using no-op event publisher", map[string]interface{}{
			"error": err.Error(),
		})
		c.EventPublisher = messaging.NewNoOpEventPublisher()
		return nil
	}

	c.EventPublisher = publisher
	logging.Info("Kafka event publisher initialized", map[string]interface{}{
		"brokers": kafkaConfig.Brokers,
	})
	return nil
}

// initConsumer sets up the transaction submissions consumer
func (c *Container) initConsumer() error {
	if os.Getenv("KAFKA_CONSUMER_ENABLED") != "true" {
		return nil
	}

	consumer, err := messaging.NewTransactionConsumer(kafka.NewConfigFromEnv(), c.Engine, c.EventPublisher)
	if err != nil {
		logging.Warn("Failed to initialize transaction consumer", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	c.Consumer = consumer
	return nil
}

// initServer sets up the HTTP server with all middleware and routes
func (c *Container) initServer() error {
	if c.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c.Router = gin.Default()
	c.Router.Use(middleware.CORS(c.Config))
	routes.RegisterRoutes(c.Router, c)

	c.Server = &http.Server{
		Addr:           ":" + c.Config.Server.Port,
		Handler:        c.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logging.Info("HTTP server configured", map[string]interface{}{
		"port": c.Config.Server.Port,
	})
	return nil
}

// Start begins serving HTTP requests
func (c *Container) Start() error {
	if c.Consumer != nil {
		if err := c.Consumer.Start(); err != nil {
			return fmt.Errorf("failed to start consumer: %w", err)
		}
	}

	logging.Info("Starting HTTP server", map[string]interface{}{
		"address": c.Server.Addr,
	})

	go func() {
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	c.waitForShutdown()
	return nil
}

// waitForShutdown handles graceful shutdown
func (c *Container) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", err, nil)
	}

	logging.Info("Server shutdown complete", nil)
}

// Shutdown gracefully stops all components
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if c.Consumer != nil {
		if err := c.Consumer.Stop(); err != nil {
			logging.Error("Failed to stop consumer", err, nil)
		}
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logging.Error("Failed to close event publisher", err, nil)
		}
	}

	return nil
}

// GetEngine returns the ledger engine
func (c *Container) GetEngine() *engine.Engine {
	return c.Engine
}

// GetEventBroker returns the event broker
func (c *Container) GetEventBroker() *events.Broker {
	return c.EventBroker
}

// GetEventPublisher returns the event publisher
func (c *Container) GetEventPublisher() messaging.EventPublisher {
	return c.EventPublisher
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRouter returns the Gin router
func (c *Container) GetRouter() *gin.Engine {
	return c.Router
}
