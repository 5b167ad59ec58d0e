package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realtor-site/common/database"
	"realtor-site/common/logger"
	commonmqtt "realtor-site/common/mqtt"
	commonredis "realtor-site/common/redis"
	"realtor-site/internal/config"
	httpapi "realtor-site/internal/http"
	"realtor-site/internal/mqtt"
	"realtor-site/internal/repository"
	"realtor-site/internal/service"
	"realtor-site/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "realtor-site")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	propertiesRepo := repository.NewPostgresPropertiesRepository(db)
	listingsRepo := repository.NewPostgresListingsRepository(db)
	leadsRepo := repository.NewPostgresLeadsRepository(db)
	postsRepo := repository.NewPostgresPostsRepository(db)

	// Redis backs the search cache and the lead stream. Both are optional:
	// without it searches go straight to Postgres and leads are not streamed.
	var (
		cache     *store.SearchCache
		publisher service.LeadPublisher
	)
	redisClient := commonredis.NewRedisClient(&cfg.Redis)
	defer commonredis.Close(redisClient)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := commonredis.Ping(pingCtx, redisClient); err != nil {
		log.Warn("Redis unavailable, search cache and lead stream disabled", zap.Error(err))
	} else {
		cache = store.NewSearchCache(store.NewRedisKVStore(redisClient), cfg.Search.CacheTTL, log)
		publisher = store.NewLeadStream(redisClient, cfg.Leads.Stream)
	}
	pingCancel()

	mailer := newMailer(cfg.Mail, log)
	notifier := service.NewNotificationService(mailer, service.NewEmailRenderer(), cfg.Mail.AgentEmail, log)

	searchSvc := service.NewPropertySearchService(propertiesRepo, listingsRepo, cache, log)
	addressSvc := service.NewAddressSearchService(listingsRepo, log)
	suggestSvc := service.NewSuggestionService(listingsRepo, log)
	lookupSvc := service.NewMLSLookupService(service.NewMLSClient(cfg.MLS.APIURL, cfg.MLS.Token, cfg.MLS.Timeout, log), log)
	leadSvc := service.NewLeadService(leadsRepo, publisher, notifier, log)
	adminSvc := service.NewPropertyAdminService(propertiesRepo, cache, log)
	blogSvc := service.NewBlogService(postsRepo, log)

	leadHandler := httpapi.NewLeadHandler(leadSvc, log)
	blogHandler := httpapi.NewBlogHandler(blogSvc, log)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterPropertyRoutes(httpapi.NewPropertiesHandler(searchSvc, cfg.Search.DefaultLimit, cfg.Search.MaxLimit, log))
	router.RegisterSearchRoutes(httpapi.NewSearchHandler(addressSvc, suggestSvc, log))
	router.RegisterMLSLookupRoutes(httpapi.NewMLSLookupHandler(lookupSvc, log))
	router.RegisterNotificationRoutes(httpapi.NewNotificationHandler(notifier, log))
	router.RegisterLeadRoutes(leadHandler)
	router.RegisterBlogRoutes(blogHandler)
	router.RegisterAdminRoutes(cfg.Auth.JWTSecret, httpapi.AdminRoutes{
		Properties: httpapi.NewAdminPropertiesHandler(adminSvc, log),
		Leads:      leadHandler,
		Blog:       blogHandler,
	})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, admin API disabled")
	}

	if cfg.MQTT.Enabled && cache != nil {
		mqttClient, err := commonmqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("MQTT unavailable, MLS update listener disabled", zap.Error(err))
		} else {
			defer mqttClient.Disconnect()
			listener := mqtt.NewMLSUpdateListener(cache, log)
			if err := listener.Start(mqttClient, cfg.MQTT.Topic, cfg.MQTT.QoS); err != nil {
				log.Warn("Failed to subscribe to MLS updates", zap.Error(err))
			}
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newMailer(cfg config.MailConfig, log *zap.Logger) service.Mailer {
	switch cfg.Provider {
	case "smtp":
		return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From, log)
	case "log":
		return service.NewLogMailer(log)
	default:
		if cfg.APIKey == "" {
			log.Warn("MAIL_API_KEY not set, emails will only be logged")
			return service.NewLogMailer(log)
		}
		return service.NewAPIMailer(cfg.APIURL, cfg.APIKey, cfg.From, log)
	}
}
