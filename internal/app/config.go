package app

import (
	"github.com/yungbote/fitrank-backend/internal/observability"
	"github.com/yungbote/fitrank-backend/internal/platform/envutil"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/rating"
)

type Config struct {
	Port string

	// RedisAddr backs the per-(user, category) recompute lock; empty
	// means run unlocked.
	RedisAddr string

	// EventRetentionDays drives the periodic ledger cleanup.
	EventRetentionDays int

	Otel   observability.Config
	Rating rating.Options
}

func LoadConfig(log *logger.Logger) Config {
	opts := rating.Options{
		RollingWindowDays:  envutil.GetEnvAsInt("RATING_ROLLING_WINDOW_DAYS", 180, log),
		WeightStrategy:     rating.WeightStrategy(envutil.GetEnv("RATING_WEIGHT_STRATEGY", string(rating.WeightStrategyEqual), log)),
		EnableAdjustments:  envutil.GetEnvAsBool("RATING_ENABLE_ADJUSTMENTS", true, log),
		MinPopulationSize:  envutil.GetEnvAsInt("RATING_MIN_POPULATION_SIZE", 10, log),
		WeightBandPct:      envutil.GetEnvAsFloat("RATING_WEIGHT_BAND_PCT", 0.10, log),
		WeightBandGrowth:   envutil.GetEnvAsFloat("RATING_WEIGHT_BAND_GROWTH", 2.0, log),
		WeightBandAttempts: envutil.GetEnvAsInt("RATING_WEIGHT_BAND_ATTEMPTS", 3, log),
		BatchConcurrency:   envutil.GetEnvAsInt("RATING_BATCH_CONCURRENCY", 4, log),
	}

	otelCfg := observability.Config{
		Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
		ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "fitrank-backend", log),
		Environment: envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:     envutil.GetEnv("SERVICE_VERSION", "", log),
		Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		SampleRatio: envutil.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 0.1, log),
	}

	return Config{
		Port:               envutil.GetEnv("PORT", "8080", log),
		RedisAddr:          envutil.GetEnv("REDIS_ADDR", "", log),
		EventRetentionDays: envutil.GetEnvAsInt("RATING_EVENT_RETENTION_DAYS", 365, log),
		Otel:               otelCfg,
		Rating:             opts.Normalize(),
	}
}
