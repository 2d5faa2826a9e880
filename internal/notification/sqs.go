package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	cfg "github.com/expensio/expensio-backend/internal/config"
	"github.com/expensio/expensio-backend/internal/domain"
)

// messageTypeExpense is attached to every published message so consumers can
// route it without parsing the body
const messageTypeExpense = "EXPENSE_NOTIFICATION"

// SQSPublisher publishes notification e-mails to an AWS SQS queue
type SQSPublisher struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSPublisher creates a publisher for the configured queue
func NewSQSPublisher(ctx context.Context, sqsCfg cfg.SQSConfig) (*SQSPublisher, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(sqsCfg.Region),
	}

	if sqsCfg.AccessKeyID != "" && sqsCfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				sqsCfg.AccessKeyID,
				sqsCfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Optional endpoint override for LocalStack / ElasticMQ
	var client *sqs.Client
	if sqsCfg.Endpoint != "" {
		client = sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(sqsCfg.Endpoint)
		})
	} else {
		client = sqs.NewFromConfig(awsCfg)
	}

	return &SQSPublisher{
		client:   client,
		queueURL: sqsCfg.QueueURL,
	}, nil
}

// Publish sends the e-mail message as a JSON body with a MessageType attribute
func (p *SQSPublisher) Publish(ctx context.Context, msg domain.EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"MessageType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(messageTypeExpense),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

var _ Publisher = (*SQSPublisher)(nil)
