package processing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSConsumer long-polls an SQS queue subscribed to the bucket's
// object-created notifications and feeds each message to the worker.
type SQSConsumer struct {
	client   *sqs.Client
	queueURL string
	worker   *Worker
}

func NewSQSConsumer(ctx context.Context, queueURL, region string, worker *Worker) (*SQSConsumer, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("events queue URL cannot be empty")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SQSConsumer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
		worker:   worker,
	}, nil
}

// Run polls until the context is cancelled. Messages are deleted only
// after successful processing; failures stay on the queue so its
// redrive policy decides about redelivery.
func (c *SQSConsumer) Run(ctx context.Context) {
	log := c.worker.log
	log.Infof("consuming storage events from %s", c.queueURL)

	for {
		if ctx.Err() != nil {
			return
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("failed to receive storage events: %v", err)
			continue
		}

		for _, msg := range out.Messages {
			if msg.Body == nil {
				continue
			}
			if err := c.worker.HandleNotification(ctx, []byte(*msg.Body)); err != nil {
				log.Errorf("storage event processing failed: %v", err)
				continue
			}

			_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(c.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			})
			if err != nil {
				log.Errorf("failed to delete storage event message: %v", err)
			}
		}
	}
}
