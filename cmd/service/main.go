package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/2beens/weighttrend/internal"
	"github.com/2beens/weighttrend/internal/config"
	"github.com/2beens/weighttrend/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	envRedisPass        = "WEIGHTTREND_REDIS_PASS"
	envSentryDSN        = "SENTRY_DSN"
	envHoneycombEnabled = "HONEYCOMB_ENABLED"
	envHoneycombApiKey  = "HONEYCOMB_API_KEY"
	envOtelServiceName  = "OTEL_SERVICE_NAME"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("envfile", ".env", "optional file with secrets as env vars")
	flag.Parse()

	if err := run(*env, *configPath, *envFile); err != nil {
		log.Fatalf("weighttrend service: %s", err)
	}
}

func run(env, configPath, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("load env file [%s]: %s", envFile, err)
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return err
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv(envSentryDSN),
		SentryServerName: "weighttrend-service",
	})

	log.WithFields(log.Fields{
		"env":            env,
		"port":           cfg.Port,
		"history_source": cfg.HistorySource,
		"default_window": cfg.DefaultWindow,
	}).Info("starting weighttrend service")

	versionInfo := buildRevision()
	log.Debugf("running version: %s", versionInfo)

	redisPassword := os.Getenv(envRedisPass)
	if redisPassword == "" {
		log.Warnf("redis password not set, use %s", envRedisPass)
	}

	honeycombEnabled := os.Getenv(envHoneycombEnabled) == "true"
	if honeycombEnabled {
		for _, key := range []string{envHoneycombApiKey, envOtelServiceName} {
			if os.Getenv(key) == "" {
				log.Warnf("%s env var not set", key)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		VersionInfo:             versionInfo,
		RedisPassword:           redisPassword,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnf("shutdown signal received")
	server.GracefulShutdown()

	return nil
}

// buildRevision returns the vcs revision stamped in by the go toolchain.
func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	revision, modified := "", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return info.Main.Version
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}
