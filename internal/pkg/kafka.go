package pkg

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig outbox 事件总线配置，Brokers 为空时不启用
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	BatchTimeout time.Duration
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

// EventProducer 把 outbox 事件写入 Kafka，消息 key 为聚合 ID
type EventProducer struct {
	writer *kafka.Writer
}

func NewEventProducer(cfg KafkaConfig) (*EventProducer, error) {
	if !cfg.Enabled() {
		return nil, errors.NotValidf("kafka config without brokers or topic")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
	}
	return &EventProducer{writer: w}, nil
}

// EventMessage 事件类型放在 header 里，消费者不用解析 payload 就能路由
func EventMessage(eventType, aggregateID string, payload []byte) kafka.Message {
	return kafka.Message{
		Key:   []byte(aggregateID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
}

// Publish 同步写入，同一账户或帖子的事件落在同一分区
func (p *EventProducer) Publish(ctx context.Context, eventType, aggregateID string, payload []byte) error {
	return p.writer.WriteMessages(ctx, EventMessage(eventType, aggregateID, payload))
}

func (p *EventProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
