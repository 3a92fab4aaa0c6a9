package service

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"gorm.io/gorm"

	"HugHub/internal/metrics"
	"HugHub/internal/model"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.OutboxEvent) error

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, clk clock.Clock, m *metrics.Metrics) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		clock:     clk,
		metrics:   m,
	}
}

// Run outbox启动器，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.clock.After(r.interval):
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 从数据库读取一批事件交给 sender 投递，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		logger.Errorf("outbox query: %v", err)
		return 0
	}
	var sent int
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			logger.Warningf("outbox send %d (%s) failed: %v", ob.ID, ob.EventType, err)
			r.count("failed")
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				logger.Errorf("outbox mark retry %d: %v", ob.ID, err)
			}
			continue
		}
		r.count("sent")
		sent++
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			logger.Errorf("outbox mark sent %d: %v", ob.ID, err)
		}
	}
	return sent
}

func (r *OutboxRelayer) count(result string) {
	if r.metrics != nil {
		r.metrics.Outbox.WithLabelValues(result).Inc()
	}
}

// KafkaSender 单条消息在本轮内短暂重试，仍失败则交给 outbox 的 retry 计数
func KafkaSender(p *pkg.EventProducer, clk clock.Clock) Sender {
	return func(ctx context.Context, ob *model.OutboxEvent) error {
		err := retry.Call(retry.CallArgs{
			Func: func() error {
				return p.Publish(ctx, ob.EventType, ob.AggregateID, []byte(ob.Payload))
			},
			Attempts: 3,
			Delay:    200 * time.Millisecond,
			Clock:    clk,
			Stop:     ctx.Done(),
		})
		return retry.LastError(err)
	}
}

// LogSender 未配置 Kafka 时使用，只打印事件
func LogSender(_ context.Context, ob *model.OutboxEvent) error {
	logger.Infof("outbox %s aggregate=%s payload=%s", ob.EventType, ob.AggregateID, ob.Payload)
	return nil
}
