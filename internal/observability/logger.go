package observability

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LochanPS/Matchify.pro-sub003/internal/config"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/logging"
)

// BuildLogger assembles the service logger: JSON to stdout, an optional
// Better Stack shipping core, and an optional OpenTelemetry mirror core
// feeding Uptrace. The returned shutdown drains queued log deliveries.
func BuildLogger(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			cfg.LogLevel,
		),
	}

	var syncer *betterStackWriteSyncer
	if cfg.BetterStackEnabled {
		endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
		if endpoint == "" {
			return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
		}

		syncer = newBetterStackWriteSyncer(
			endpoint,
			strings.TrimSpace(cfg.BetterStackToken),
			cfg.BetterStackTimeout,
		)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(syncer),
			cfg.BetterStackMinLevel,
		))
	}

	if cfg.UptraceEnabled && cfg.UptraceLogsEnabled {
		cores = append(cores, NewOtelLogCore(cfg.ServiceVersion, cfg.LogLevel))
	}

	logger := logging.FromZap(zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	))

	if syncer != nil {
		logger.Info("betterstack log shipping enabled",
			"endpoint", syncer.endpoint,
			"min_level", cfg.BetterStackMinLevel.String(),
			"service_name", cfg.ServiceName,
			"environment", cfg.AppEnv,
		)
	}

	shutdown := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			withTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			ctx = withTimeout
		}
		if syncer != nil {
			if err := syncer.Close(ctx); err != nil {
				return fmt.Errorf("drain betterstack queue: %w", err)
			}
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}

	return logger, shutdown, nil
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
