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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sophro-cabinet/site-backend/handlers"
	"github.com/sophro-cabinet/site-backend/internal/admins"
	"github.com/sophro-cabinet/site-backend/internal/appointments"
	"github.com/sophro-cabinet/site-backend/internal/config"
	"github.com/sophro-cabinet/site-backend/internal/contact"
	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/media"
	"github.com/sophro-cabinet/site-backend/internal/notify"
	pageshandler "github.com/sophro-cabinet/site-backend/internal/pages/handler"
	pagesservice "github.com/sophro-cabinet/site-backend/internal/pages/service"
	"github.com/sophro-cabinet/site-backend/internal/sessions"
	"github.com/sophro-cabinet/site-backend/internal/testimonials"
	"github.com/sophro-cabinet/site-backend/internal/tokens"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logger.Fatalf("JWT_SECRET is required")
	}
	logger.Infof("config loaded: env=%s redis=%v smtp=%v minio=%v",
		cfg.Server.Environment, cfg.Redis.Addr() != "", cfg.Mail.Enabled(), cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeaders(), middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.ErrorHandler(cfg.Server.IsDevelopment()))

	// Redis is optional: token blacklist and shared rate limit
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			sessions.SetBlacklistClient(rdb)
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	var limiter gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && sessions.Enabled() {
			limiter = middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
		} else {
			limiter = middleware.RateLimitMiddleware(cfg.RateLimit.Max, cfg.RateLimit.Window)
		}
		logger.Infof("rate limiter enabled: %d requests per %s", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	db := client.Database(cfg.MongoDB.Database)
	logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)

	adminRepo, err := admins.NewMongoRepository(ctx, db.Collection("admins"))
	if err != nil {
		logger.Fatalf("admins repository: %v", err)
	}
	contactRepo, err := contact.NewMongoRepository(ctx, db.Collection("contactmessages"), cfg.Contact.MessageTTL)
	if err != nil {
		logger.Fatalf("contact repository: %v", err)
	}
	testimonialRepo, err := testimonials.NewMongoRepository(ctx, db.Collection("temoignages"))
	if err != nil {
		logger.Fatalf("testimonials repository: %v", err)
	}
	appointmentRepo, err := appointments.NewMongoRepository(ctx, db.Collection("rdvs"))
	if err != nil {
		logger.Fatalf("appointments repository: %v", err)
	}
	pageSvc, err := pagesservice.NewMongoService(ctx, db.Collection("pagecontents"))
	if err != nil {
		logger.Fatalf("pages service: %v", err)
	}

	notifier := notify.New(cfg.Mail)
	adminSvc := admins.NewService(adminRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	if created, err := adminSvc.EnsureAdmin(ctx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
		logger.Errorf("admin bootstrap failed: %v", err)
	} else if created {
		logger.Infof("bootstrap admin %s created", cfg.Admin.BootstrapEmail)
	}

	var store media.Store
	if cfg.MinIO.Endpoint != "" {
		if s, err := media.NewMinIOStorage(ctx, cfg.MinIO); err != nil {
			logger.Warnf("media uploads disabled: %v", err)
		} else {
			store = s
		}
	}

	authH := handlers.NewAuthHandler(adminSvc)
	contactH := handlers.NewContactHandler(contact.NewService(contactRepo, notifier))
	testimonialH := handlers.NewTestimonialHandler(testimonials.NewService(testimonialRepo, notifier))
	appointmentH := handlers.NewAppointmentHandler(appointments.NewService(appointmentRepo, notifier))

	checks := map[string]handlers.Check{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers.NewHealthHandler(checks).Register(r)
	handlers.RegisterSwagger(r)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	public := r.Group("/")
	public.Use(limiter)
	pageshandler.RegisterPublicRoutes(public, pageSvc)
	contactH.RegisterPublic(public)
	testimonialH.RegisterPublic(public)
	appointmentH.RegisterPublic(public)

	adminGroup := r.Group("/admin")
	authH.RegisterLogin(adminGroup.Group("", limiter))
	protected := adminGroup.Group("")
	protected.Use(middleware.AdminAuth(tokens.NewVerifier(cfg.JWT.Secret), adminSvc), limiter)
	authH.Register(protected)
	contactH.RegisterAdmin(protected)
	testimonialH.RegisterAdmin(protected)
	appointmentH.RegisterAdmin(protected)
	pageshandler.RegisterAdminRoutes(protected, pageSvc)
	media.NewHandler(store, cfg.MinIO.PublicURL).Register(protected)

	r.NoRoute(middleware.NotFound)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting site API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
