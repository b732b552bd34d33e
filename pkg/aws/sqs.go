package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSQueue sends to a single queue URL.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSQueue(cfg sdkaws.Config, queueURL string) *SQSQueue {
	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// SendEvent sends body with an "event_type" string attribute so consumers can filter without parsing.
func (q *SQSQueue) SendEvent(ctx context.Context, eventType, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(q.queueURL),
		MessageBody: sdkaws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", eventType, err)
	}
	return nil
}
