package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/segyhp/booking-engine/internal/domain"
)

// Producer publishes payment outcomes to Kafka
type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewProducerWith(sync, topicPrefix), nil
}

// NewProducerWith wraps an existing sync producer
func NewProducerWith(sync sarama.SyncProducer, topicPrefix string) *Producer {
	if topicPrefix == "" {
		topicPrefix = "payment"
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix}
}

// PublishOutcome sends the outcome to <prefix>.<status>, keyed by tx_ref so every
// event of one attempt lands on the same partition.
func (p *Producer) PublishOutcome(ctx context.Context, outcome domain.PaymentOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return p.Publish(ctx, p.Topic(outcome.Status), outcome.TxRef, payload, map[string]string{
		"subject_type": string(outcome.SubjectType),
	})
}

// Topic returns the topic name for an intent status
func (p *Producer) Topic(status string) string {
	return fmt.Sprintf("%s.%s", p.topicPrefix, status)
}

func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

// LogPublisher records outcomes in the log when no brokers are configured
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOutcome(ctx context.Context, outcome domain.PaymentOutcome) error {
	p.logger.InfoContext(ctx, "payment outcome",
		"tx_ref", outcome.TxRef,
		"status", outcome.Status,
		"subject_type", outcome.SubjectType,
		"subject_id", outcome.SubjectID,
		"reason", outcome.Reason)
	return nil
}
