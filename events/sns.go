package events

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher publishes raw messages to an SNS topic.
type SNSPublisher struct {
	client *sns.Client
}

// NewSNSPublisher creates an SNS publisher from the default AWS config chain.
func NewSNSPublisher(ctx context.Context) (*SNSPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &SNSPublisher{client: sns.NewFromConfig(cfg)}, nil
}

// NewSNSPublisherFromConfig creates an SNS publisher from an explicit config.
func NewSNSPublisherFromConfig(cfg sdkaws.Config) *SNSPublisher {
	return &SNSPublisher{client: sns.NewFromConfig(cfg)}
}

// Publish publishes a raw message to the given SNS topic ARN.
func (s *SNSPublisher) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	body := string(message)
	input := &sns.PublishInput{
		TopicArn: &topicArn,
		Message:  &body,
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}
