package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Publisher delivers domain events to downstream sinks. Implementations are
// best-effort: the engines publish after commit and never fail a request on a
// publish error.
type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// Fanout publishes each event to Kafka and, when configured, mirrors it to
// SNS. Either sink may be nil.
type Fanout struct {
	producer    *Producer
	snsClient   *SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(producer *Producer, snsClient *SNSPublisher, snsTopicArn string, logger *zap.Logger) *Fanout {
	return &Fanout{
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

func (f *Fanout) Publish(ctx context.Context, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if f.producer != nil {
		if err := f.producer.Publish(ctx, key, data); err != nil {
			f.logger.Error("kafka publish failed", zap.String("key", key), zap.Error(err))
			return err
		}
	}

	// SNS mirror is best-effort; a failure never surfaces to the caller.
	if f.snsClient != nil && f.snsTopicArn != "" {
		if err := f.snsClient.Publish(ctx, f.snsTopicArn, data); err != nil {
			f.logger.Warn("sns publish failed", zap.String("key", key), zap.Error(err))
		}
	}

	return nil
}
