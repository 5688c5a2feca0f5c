package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/chatlookup/internal/api/router"
	"github.com/wolfman30/chatlookup/internal/chat"
	"github.com/wolfman30/chatlookup/internal/clinic"
	appconfig "github.com/wolfman30/chatlookup/internal/config"
	"github.com/wolfman30/chatlookup/internal/dataset"
	"github.com/wolfman30/chatlookup/internal/llm"
	"github.com/wolfman30/chatlookup/internal/menu"
	"github.com/wolfman30/chatlookup/internal/observability/metrics"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// Deps carries the collaborators Build does not construct from config.
// Nil fields are built from config or left disabled.
type Deps struct {
	Logger *logging.Logger
	// AWS is required when a dataset lives in S3 or Bedrock is configured.
	AWS *aws.Config
	// S3 overrides the client built from AWS for dataset reads.
	S3 dataset.GetObjectAPI
	// LLM overrides the provider chosen from config.
	LLM   llm.Client
	Redis *redis.Client
	// Registry receives the chat metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// App is the wired chat service shared by the HTTP server and the Lambda.
type App struct {
	Clinic     *chat.Handler
	Restaurant *chat.Handler
	Router     http.Handler
	Metrics    *metrics.ChatMetrics

	closers []func()
}

// Build loads both datasets and wires the chat flows behind the router.
func Build(ctx context.Context, cfg *appconfig.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{}
	s3Client := deps.S3
	if s3Client == nil && deps.AWS != nil && cfg.UsesS3() {
		s3Client = s3.NewFromConfig(*deps.AWS, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
	}

	doctors, err := dataset.Load[clinic.Doctor](ctx, cfg.ClinicDataset, dataset.DefaultDoctors(), s3Client)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: clinic dataset: %w", err)
	}
	dishes, err := dataset.Load[menu.Dish](ctx, cfg.MenuDataset, dataset.DefaultMenu(), s3Client)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: menu dataset: %w", err)
	}
	logger.Info("datasets loaded", "doctors", len(doctors), "dishes", len(dishes))

	client := deps.LLM
	if client == nil {
		built, closeFn, err := BuildLLMClient(ctx, cfg, deps.AWS, logger)
		if err != nil {
			return nil, err
		}
		client = built
		app.closers = append(app.closers, closeFn)
	}

	var (
		registerer    prometheus.Registerer = prometheus.DefaultRegisterer
		metricHandler                       = promhttp.Handler()
	)
	if deps.Registry != nil {
		registerer = deps.Registry
		metricHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}
	app.Metrics = metrics.NewChatMetrics(registerer)

	caller := llm.NewCaller(client, cfg.LLMTimeout, app.Metrics)

	redisClient := deps.Redis
	if redisClient == nil {
		redisClient = BuildRedisClient(ctx, cfg, logger, true)
		if redisClient != nil {
			app.closers = append(app.closers, func() { _ = redisClient.Close() })
		}
	}
	store := BuildTranscriptStore(redisClient, cfg)
	var transcriptLog chat.TranscriptLog
	if store != nil {
		transcriptLog = store
	}

	clinicSvc := clinic.NewService(doctors, caller, clinic.Options{
		Logger:      logger.With("component", "clinic"),
		Metrics:     app.Metrics,
		Temperature: cfg.LLMTemperature,
	})
	menuSvc := menu.NewService(dishes, caller, menu.Options{
		Logger:      logger.With("component", "menu"),
		Metrics:     app.Metrics,
		Temperature: cfg.LLMTemperature,
		Validate:    cfg.MenuValidationEnabled,
	})

	chatOpts := chat.Options{Logger: logger, Metrics: app.Metrics, Transcript: transcriptLog}
	app.Clinic = chat.NewHandler(clinic.Flow, clinicSvc, chatOpts)
	app.Restaurant = chat.NewHandler(menu.Flow, menuSvc, chatOpts)

	app.Router = router.New(&router.Config{
		Logger:             logger,
		ClinicHandler:      app.Clinic,
		RestaurantHandler:  app.Restaurant,
		MetricsHandler:     metricHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		RequestTimeout:     4 * cfg.LLMTimeout,
	})
	return app, nil
}

// Close releases provider and Redis connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
