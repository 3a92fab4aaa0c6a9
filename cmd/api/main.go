package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo"

	"HugHub/internal/config"
	"HugHub/internal/metrics"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
	"HugHub/internal/repository/redis"
	"HugHub/internal/router"
	"HugHub/internal/service"
)

var logger = loggo.GetLogger("hughub")

func main() {
	if err := run(); err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err = loggo.ConfigureLoggers(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.Open(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		return err
	}
	// 自动建表
	if err = mysql.Migrate(db); err != nil {
		return err
	}

	// 连接redis
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	clk := clock.WallClock
	m := metrics.New()
	sessions := &redis.TokenRepository{Client: rdb}
	tokens := pkg.NewTokenMaker(cfg.AccessSecret, cfg.RefreshSecret)
	mailer := service.NewEmailService(cfg.SMTP, cfg.APIBaseURL, cfg.FrontendBaseURL)
	gate := service.NewGate(
		pkg.NewToxicityClient(cfg.ToxicityURL, cfg.ToxicityTimeout),
		&mysql.ModerationLogRepository{DB: db},
		clk, m,
	)

	// outbox 投递，未配置 Kafka 时只打印
	sender := service.LogSender
	if cfg.Kafka.Enabled() {
		producer, err := pkg.NewEventProducer(cfg.Kafka)
		if err != nil {
			return err
		}
		defer producer.Close()
		sender = service.KafkaSender(producer, clk)
	}
	relayer := service.NewOutboxRelayer(db, sender, clk, m)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Deps{
		Users:    service.NewUserService(db, sessions, &redis.CooldownRepository{Client: rdb}, tokens, mailer, clk, m),
		Profiles: service.NewProfileService(db, clk),
		Posts:    service.NewPostService(db, gate, clk, m),
		Comments: service.NewCommentService(db, gate, clk, m),
		Follows:  service.NewFollowService(db, clk),
		Tokens:   tokens,
		Sessions: sessions,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
