package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/patient-management-service/internal/assistant"
	"github.com/clinicore/patient-management-service/internal/auth"
	"github.com/clinicore/patient-management-service/internal/cache"
	"github.com/clinicore/patient-management-service/internal/db"
	httpx "github.com/clinicore/patient-management-service/internal/http"
	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/telemetry"
)

func main() {
	log.Println("patient-management-service starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: telemetry shutdown: %v", err)
			}
		}()
	}

	var metrics *telemetry.Metrics
	if provider != nil {
		metrics, err = telemetry.InitMetrics()
		if err != nil {
			log.Printf("Warning: failed to initialize metrics: %v", err)
		}
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var cacheStore cache.Store
	cacheClient, err := cache.Connect(ctx)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis, caching disabled: %v", err)
	} else {
		cacheStore = cacheClient
		defer cacheClient.Close()
	}

	var publisher messaging.PublisherInterface
	rabbitPublisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ, events disabled: %v", err)
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
	}

	authCfg := auth.LoadConfig()
	permissionsPath := os.Getenv("PERMISSIONS_PATH")
	if permissionsPath == "" {
		permissionsPath = "permissions.yml"
	}
	perms, err := auth.LoadPermissions(permissionsPath)
	if err != nil {
		log.Fatalf("Failed to load permissions from %s: %v", permissionsPath, err)
	}

	var chatClient assistant.ChatClient
	if openaiClient := assistant.NewOpenAIClient(os.Getenv("OPENAI_API_KEY")); openaiClient != nil {
		chatClient = openaiClient
	} else {
		log.Println("Warning: OPENAI_API_KEY not set, assistant runs in fallback mode")
	}

	router := httpx.SetupRouter(httpx.Deps{
		DB:         database,
		Cache:      cacheStore,
		Publisher:  publisher,
		Verifier:   auth.NewVerifier(authCfg),
		Issuer:     auth.NewTokenIssuer(authCfg),
		Perms:      perms,
		Metrics:    metrics,
		ChatClient: chatClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      httpx.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	log.Println("patient-management-service stopped")
}
