// Package notify holds the out-of-band channels: mirroring events to an
// SNS topic and emailing batch summaries through SES. Both are
// best-effort; a failure here never fails the operation that asked.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"scout-pipeline/internal/common/config"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/models"
)

// SNSAPI is the slice of the SNS client we use, defined for mocking.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSMirror publishes every dispatched event to a topic.
type SNSMirror struct {
	client   SNSAPI
	topicARN string
	logger   logger.Logger
}

func NewSNSMirror(ctx context.Context, cfg config.SNSConfig, log logger.Logger) (*SNSMirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewSNSMirrorWithClient(sns.NewFromConfig(awsCfg), cfg.TopicARN, log), nil
}

func NewSNSMirrorWithClient(client SNSAPI, topicARN string, log logger.Logger) *SNSMirror {
	return &SNSMirror{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "sns-mirror"}),
	}
}

func (m *SNSMirror) Publish(ctx context.Context, e models.Event) error {
	message, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = m.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(m.topicARN),
		Message:  aws.String(string(message)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(e.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish event %s: %w", e.ID, err)
	}

	m.logger.Debug("event mirrored", map[string]interface{}{
		"eventId":   e.ID,
		"eventType": e.Type,
	})
	return nil
}
