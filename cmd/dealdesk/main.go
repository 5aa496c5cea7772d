package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"dealdesk/internal/auth"
	"dealdesk/internal/cache"
	"dealdesk/internal/client/lemlist"
	"dealdesk/internal/config"
	cronrunner "dealdesk/internal/cron"
	"dealdesk/internal/db"
	"dealdesk/internal/handler"
	"dealdesk/internal/logger"
	gormrepository "dealdesk/internal/repository/gorm"
	"dealdesk/internal/service"

	_ "dealdesk/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("DD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("DD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	var summaryCache *cache.RedisStore
	if cfg.Redis.Addr != "" {
		summaryCache = cache.NewRedisStore(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("summary cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var lemlistClient *lemlist.Client
	if cfg.Lemlist.APIKey != "" {
		lemlistClient = lemlist.NewClient(cfg.Lemlist.BaseURL, cfg.Lemlist.APIKey, cfg.Lemlist.Timeout)
	}

	jwtSigner := auth.JWT{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	}

	dealService := &service.DealService{
		Repo:       store,
		Cache:      summaryCache,
		Logger:     logger,
		SummaryTTL: cfg.Redis.SummaryTTL,
	}
	voteService := &service.VoteService{
		Repo:   store,
		Cache:  summaryCache,
		Logger: logger,
	}
	campaignService := &service.CampaignService{
		Repo:    store,
		Lemlist: lemlistClient,
		Logger:  logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Admin-Key"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	authHandler := &handler.AuthHandler{
		Repo:     store,
		JWT:      jwtSigner,
		AdminKey: cfg.Auth.AdminKey,
	}
	authHandler.Register(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api")
	api.Use(auth.Middleware(jwtSigner))

	dealHandler := &handler.DealHandler{Repo: store, Service: dealService}
	dealHandler.Register(api)
	voteHandler := &handler.VoteHandler{Repo: store, Service: voteService}
	voteHandler.Register(api)
	surveyHandler := &handler.SurveyHandler{Service: voteService}
	surveyHandler.Register(api)
	pipelineHandler := &handler.PipelineHandler{Repo: store}
	pipelineHandler.Register(api)
	lpHandler := &handler.LPHandler{Repo: store}
	lpHandler.Register(api)
	chatHandler := &handler.ChatHandler{Repo: store}
	chatHandler.Register(api)
	updateHandler := &handler.UpdateHandler{Repo: store, Service: campaignService}
	updateHandler.Register(api)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Survey.ReminderEnabled {
		reminder := &service.SurveyReminderService{
			Repo:        store,
			Logger:      logger,
			OverdueOnly: cfg.Survey.OverdueOnly,
		}
		if cfg.Cron.SurveyReminder != "" {
			_, err := cronRunner.Add(cfg.Cron.SurveyReminder, func(ctx context.Context) {
				if err := reminder.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("survey reminder run failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register survey reminder failed", zap.Error(err))
			}
		} else {
			// No cron schedule configured: fall back to a plain ticker loop.
			go func() {
				if err := reminder.Run(ctx, cfg.Survey.ReminderInterval); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("survey reminder stopped", zap.Error(err))
				}
			}()
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
