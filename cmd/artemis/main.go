package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/coordinator/api"
	"github.com/artemis-health/artemis/coordinator/middleware"
	"github.com/artemis-health/artemis/hospital"
	"github.com/artemis-health/artemis/pkg/prometheus"
	"github.com/artemis-health/artemis/pkg/server"
	"github.com/artemis-health/artemis/pkg/storage"
	"github.com/artemis-health/artemis/pkg/storage/sqlite"
	"github.com/artemis-health/artemis/pkg/tracing"
	"github.com/artemis-health/artemis/pkg/trainer"
)

const (
	svcName       = "coordinator"
	defHTTPPort   = "8080"
	envPrefixHTTP = "ARTEMIS_HTTP_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel        string        `env:"ARTEMIS_LOG_LEVEL"         envDefault:"info"`
	InstanceID      string        `env:"ARTEMIS_INSTANCE_ID"`
	DBPath          string        `env:"ARTEMIS_DB_PATH"           envDefault:""`
	Hospitals       int           `env:"ARTEMIS_HOSPITALS"         envDefault:"3"`
	Features        int           `env:"ARTEMIS_FEATURES"          envDefault:"25"`
	SamplesPerNode  int           `env:"ARTEMIS_SAMPLES_PER_NODE"  envDefault:"400"`
	TestSamples     int           `env:"ARTEMIS_TEST_SAMPLES"      envDefault:"200"`
	Epochs          int           `env:"ARTEMIS_EPOCHS"            envDefault:"10"`
	LearningRate    float64       `env:"ARTEMIS_LEARNING_RATE"     envDefault:"0.05"`
	BatchSize       int           `env:"ARTEMIS_BATCH_SIZE"        envDefault:"32"`
	Seed            int64         `env:"ARTEMIS_SEED"              envDefault:"42"`
	NodeTimeout     time.Duration `env:"ARTEMIS_NODE_TIMEOUT"      envDefault:"0"`
	PrivacyEnabled  bool          `env:"ARTEMIS_PRIVACY_ENABLED"   envDefault:"false"`
	MaxNorm         float64       `env:"ARTEMIS_PRIVACY_MAX_NORM"  envDefault:"1.0"`
	NoiseMultiplier float64       `env:"ARTEMIS_PRIVACY_NOISE"     envDefault:"1.1"`
	OTELURL         url.URL       `env:"ARTEMIS_OTEL_URL"`
	TraceRatio      float64       `env:"ARTEMIS_TRACE_RATIO"       envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := tracing.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	var history storage.HistoryStore
	var checkpoints storage.CheckpointStore
	var predictions storage.PredictionStore
	switch cfg.DBPath {
	case "":
		history = storage.NewInMemoryHistory()
		checkpoints = storage.NewInMemoryCheckpoints()
		predictions = storage.NewInMemoryPredictions()
	default:
		db, err := sqlite.NewDatabase(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open sqlite database", slog.String("error", err.Error()))

			return
		}
		defer db.Close()
		stores := sqlite.NewStores(db)
		history = stores.History
		checkpoints = stores.Checkpoints
		predictions = stores.Predictions
	}

	lt := trainer.NewLogistic(trainer.Config{
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		BatchSize:    cfg.BatchSize,
	})

	var local trainer.LocalTrainer = lt
	if cfg.PrivacyEnabled {
		local = trainer.WithGaussianNoise(lt, trainer.PrivacyConfig{
			MaxNorm:         cfg.MaxNorm,
			NoiseMultiplier: cfg.NoiseMultiplier,
		}, rand.NewSource(cfg.Seed))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	riskPlane := make([]float64, cfg.Features)
	for i := range riskPlane {
		riskPlane[i] = rng.NormFloat64()
	}

	nodes := make([]*hospital.Node, cfg.Hospitals)
	for i := range nodes {
		ds := syntheticDataset(rng, cfg.SamplesPerNode, riskPlane)
		n, err := hospital.New(i, fmt.Sprintf("hospital-%d", i+1), local, ds)
		if err != nil {
			logger.Error("failed to create hospital node", slog.String("error", err.Error()))

			return
		}
		nodes[i] = n
	}
	testSet := syntheticDataset(rng, cfg.TestSamples, riskPlane)

	svc, err := coordinator.NewService(
		coordinator.Config{
			FeatureWidth: cfg.Features,
			NodeTimeout:  cfg.NodeTimeout,
		},
		nodes,
		trainer.NewLogisticParams(cfg.Features, cfg.Seed),
		testSet,
		lt,
		lt,
		history,
		checkpoints,
		predictions,
	)
	if err != nil {
		logger.Error("failed to create coordinator service", slog.String("error", err.Error()))

		return
	}

	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := server.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}

// syntheticDataset draws standardized feature vectors and labels them by a
// noisy linear risk rule, which gives every hospital a learnable but
// non-identical shard.
func syntheticDataset(rng *rand.Rand, n int, riskPlane []float64) trainer.Dataset {
	ds := trainer.Dataset{
		Features: make([][]float64, n),
		Labels:   make([]float64, n),
	}
	for i := range ds.Features {
		row := make([]float64, len(riskPlane))
		score := 0.0
		for k := range row {
			row[k] = rng.NormFloat64()
			score += row[k] * riskPlane[k]
		}
		ds.Features[i] = row
		if score+rng.NormFloat64() > 0 {
			ds.Labels[i] = 1
		}
	}

	return ds
}
