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

	"serviceconnect-backend/config"
	"serviceconnect-backend/controllers"
	"serviceconnect-backend/models"
	"serviceconnect-backend/routes"
	"serviceconnect-backend/services"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func openStore(ctx context.Context, cfg config.Config) (store.KV, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := config.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.NewGorm(db)
	case "redis":
		rdb, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedis(ctx, rdb, cfg.RedisPrefix)
	default:
		return store.NewMemory(), nil
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	utils.InitializeLogger(cfg.Env)
	logger := utils.GetLogger()
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	kv, err := openStore(startCtx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	var notifier services.Notifier = &services.LogNotifier{Logger: logger, KV: kv}
	if cfg.TwilioEnabled() {
		notifier = services.NewTwilioNotifier(services.TwilioConfig{
			AccountSID:     cfg.TwilioAccountSID,
			AuthToken:      cfg.TwilioAuthToken,
			PhoneNumber:    cfg.TwilioPhoneNumber,
			WhatsAppNumber: cfg.TwilioWhatsAppNumber,
		}, kv, services.SystemClock, logger)
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithNotifier(notifier),
		services.WithUniqueEmails(cfg.UniqueEmails),
		services.WithTokenIssuer(func(u models.User) (string, error) {
			return utils.GenerateToken(u.ID, string(u.Type))
		}),
	}
	if !cfg.SimulatedLatency {
		opts = append(opts, services.WithDelayer(services.NoDelay{}))
	}
	market := services.NewMarketplace(kv, opts...)

	reminders := services.NewReminderService(market, notifier, logger)
	if err := reminders.StartScheduler(cfg.ReminderCron); err != nil {
		logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer reminders.Stop()

	controllers.Setup(controllers.Deps{
		Market:      market,
		Carts:       services.NewCartRegistry(kv, logger),
		Sessions:    services.NewSessionRegistry(kv, logger),
		Reminders:   reminders,
		KV:          kv,
		TokenMaxAge: cfg.JWTExpiryHours * 3600,
	})

	r := routes.SetupRouter(routes.RouterOptions{
		Logger:            logger,
		AllowedOrigins:    cfg.Origins(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	})
	printRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.AppPort), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
