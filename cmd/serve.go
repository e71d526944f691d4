package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guaraci/paylink-gateway/internal/config"
	"github.com/guaraci/paylink-gateway/internal/db"
	"github.com/guaraci/paylink-gateway/internal/dispatch"
	httpSrv "github.com/guaraci/paylink-gateway/internal/http"
	"github.com/guaraci/paylink-gateway/internal/link"
	"github.com/guaraci/paylink-gateway/internal/logger"
	"github.com/guaraci/paylink-gateway/internal/mail"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)
		defer logger.Sync()

		var redisClient *redis.Client
		if cfg.Redis.Addr != "" {
			redisClient, err = db.NewRedisClient(db.RedisOpts{
				Addr:        cfg.Redis.Addr,
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = redisClient.Close() }()
		}

		var registry link.Registry = link.NullRegistry{}
		if cfg.Links.EnforceRegistry {
			if redisClient == nil {
				return fmt.Errorf("links.enforce_registry requires redis.addr")
			}
			registry = link.NewRedisRegistry(redisClient, cfg.Links.RegistryTTL)
		}

		notifier, err := buildNotifier(cmd.Context(), cfg.Mail)
		if err != nil {
			return fmt.Errorf("mail transport: %w", err)
		}
		notifier = mail.WithBreaker(notifier, cfg.Mail.Breaker.FailThreshold, cfg.Mail.Breaker.OpenFor)

		janitor := dispatch.NewJanitor()
		defer janitor.Close()

		server := httpSrv.NewServer(httpSrv.Deps{
			Cfg:      cfg,
			Registry: registry,
			Coord:    dispatch.New(notifier),
			Janitor:  janitor,
			Redis:    redisClient,
		})

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.ListenAddr())
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				logger.Log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}

func buildNotifier(ctx context.Context, cfg config.MailConfig) (mail.Notifier, error) {
	switch cfg.Transport {
	case "", "smtp":
		return mail.NewSMTPNotifier(mail.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			FromName: cfg.FromName,
		}), nil
	case "ses":
		return mail.NewSESNotifier(ctx, cfg.Region, cfg.Username, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
