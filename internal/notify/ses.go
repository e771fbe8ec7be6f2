package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"scout-pipeline/internal/common/config"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/pipeline/runner"
)

// SESAPI is the slice of the SES client we use, defined for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SummaryMailer emails the aggregate result of a batch run.
type SummaryMailer struct {
	client     SESAPI
	sender     string
	recipients []string
	logger     logger.Logger
}

func NewSummaryMailer(ctx context.Context, cfg config.EmailConfig, log logger.Logger) (*SummaryMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewSummaryMailerWithClient(ses.NewFromConfig(awsCfg), cfg.Sender, cfg.Recipients, log), nil
}

func NewSummaryMailerWithClient(client SESAPI, sender string, recipients []string, log logger.Logger) *SummaryMailer {
	return &SummaryMailer{
		client:     client,
		sender:     sender,
		recipients: recipients,
		logger:     log.WithFields(map[string]interface{}{"component": "summary-mailer"}),
	}
}

func (m *SummaryMailer) SendRunSummary(ctx context.Context, summary runner.Summary) error {
	subject := fmt.Sprintf("Scout pipeline run %s: %d delivered, %d conflicts, %d errors",
		summary.RunID, summary.Success, summary.Conflicts, summary.Errors)
	body := fmt.Sprintf(
		"Run %s finished in %s.\n\nItems processed: %d\nDelivered: %d\nConflicts: %d\nErrors: %d\n",
		summary.RunID, summary.Duration, summary.Total, summary.Success, summary.Conflicts, summary.Errors)

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &sestypes.Destination{
			ToAddresses: m.recipients,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send summary email: %w", err)
	}

	m.logger.Info("run summary emailed", map[string]interface{}{
		"runId":      summary.RunID,
		"recipients": len(m.recipients),
	})
	return nil
}
