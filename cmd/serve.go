package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"go-resources/config"
	"go-resources/internal/cache"
	"go-resources/internal/enrichment"
	"go-resources/internal/handler"
	"go-resources/internal/logger"
	"go-resources/internal/moderation"
	"go-resources/internal/scheduler"
	"go-resources/internal/scraper"
	"go-resources/internal/screening"
	"go-resources/internal/service"
	"go-resources/internal/youtube"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, moderation workers and cron jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log, db)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, log logger.Logger, db *gorm.DB) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := moderation.NewMetrics(reg)

	verdicts, memory, err := verdictCache(cfg, log)
	if err != nil {
		return err
	}

	// 所有外部请求共用一个限速器
	limiter := rate.NewLimiter(rate.Limit(cfg.Moderation.OutboundRPS), 1)
	mc := cfg.Moderation

	guard := moderation.URLGuard{MaxLength: mc.MaxURLLength}
	pages := moderation.NewPageChecker(moderation.PageConfig{
		MinConfidence:    mc.MinConfidence,
		ScrapeTimeout:    mc.ScrapeTimeout,
		MaxContentLength: mc.MaxContentLength,
		MaxURLLength:     mc.MaxURLLength,
	}, scraper.New(scraper.Options{
		RequestTimeout: mc.RequestTimeout,
		MaxRedirects:   mc.MaxRedirects,
		RedirectCheck:  guard.CheckURL,
		Limiter:        limiter,
	}), verdicts, metrics, log.With(logger.String("component", "page_checker")))

	if cfg.APIs.YouTubeAPIKey == "" {
		log.Warn("YouTube API key not configured, video links will be rejected")
	}
	videos := moderation.NewVideoChecker(
		youtube.NewClient(cfg.APIs.YouTubeURL, cfg.APIs.YouTubeAPIKey, mc.RequestTimeout, limiter),
		moderation.DefaultVideoVocabulary(),
		log.With(logger.String("component", "video_checker")),
	)

	var images moderation.ImageFinder
	if cfg.APIs.UnsplashAccessKey != "" {
		images = enrichment.NewUnsplash(cfg.APIs.UnsplashURL, cfg.APIs.UnsplashAccessKey, mc.RequestTimeout, limiter)
	} else {
		log.Warn("Unsplash access key not configured, approved resources get placeholders")
	}

	resources := service.NewResourceService(db, newScreener(cfg, log), nil, log.With(logger.String("component", "resources")))
	orchestrator := moderation.NewOrchestrator(resources, pages, videos, images, metrics,
		log.With(logger.String("component", "orchestrator")))
	queue := moderation.NewQueue(orchestrator, mc.QueueSize, mc.Workers, metrics,
		log.With(logger.String("component", "queue")))
	resources.SetQueue(queue)

	var purger scheduler.Purger
	if memory != nil {
		purger = memory
	}
	sched := scheduler.NewScheduler(resources, queue, purger, cfg.Cron, log.With(logger.String("component", "scheduler")))
	sched.OnRequeue(metrics.RecordRequeue)

	h := handler.NewHandler(resources,
		service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry),
		service.NewArticleService(cfg.Articles.FeedURL, 10*time.Minute),
		service.NewStatusService(db),
		log.With(logger.String("component", "http")))
	h.SetScheduler(sched)
	h.SetMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	if memory != nil {
		h.SetRuntime(queue, memory)
	} else {
		h.SetRuntime(queue, nil)
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(log), handler.CORS(cfg.Server.FrontendURL))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 收到信号后先排空队列,超时才取消进行中的审核
	queue.Start(context.WithoutCancel(ctx))
	if err := sched.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sched.Stop()
		httpErr := srv.Shutdown(shutdownCtx)
		// 未完成的审核保持 pending,下次启动由巡检补投
		queueErr := queue.Shutdown(shutdownCtx)
		return errors.Join(httpErr, queueErr)
	})
	return g.Wait()
}

// verdictCache 返回审核结果缓存;使用内存缓存时同时返回 Memory 供定时清理
func verdictCache(cfg *config.Config, log logger.Logger) (cache.Cache[moderation.Verdict], *cache.Memory[moderation.Verdict], error) {
	ttl := cfg.Moderation.CacheTTL
	if cfg.Moderation.CacheBackend == "redis" {
		client, err := cache.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using redis verdict cache", logger.String("address", cfg.Redis.Address))
		return cache.NewRedis[moderation.Verdict](client, "moderation:", ttl, log), nil, nil
	}
	memory := cache.NewMemory[moderation.Verdict](ttl)
	return memory, memory, nil
}

// newScreener 未配置 key 的检查直接跳过
func newScreener(cfg *config.Config, log logger.Logger) *screening.Screener {
	var (
		safety   screening.URLSafety
		toxicity screening.ToxicityScorer
	)
	if key := cfg.APIs.GoogleAPIKey; key != "" {
		safety = screening.NewSafeBrowsing(cfg.APIs.SafeBrowsingURL, key, cfg.Moderation.RequestTimeout)
		toxicity = screening.NewPerspective(cfg.APIs.PerspectiveURL, key, cfg.Moderation.RequestTimeout)
	} else {
		log.Warn("Google API key not configured, url safety and toxicity checks are skipped")
	}
	return screening.NewScreener(safety, toxicity, screening.NewProfanity(nil), log.With(logger.String("component", "screening")))
}
