package services

import (
	"context"
	"encoding/json"

	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"go.uber.org/zap"
)

// EventSender fans out an event to a queue in addition to SNS.
type EventSender interface {
	SendEvent(ctx context.Context, eventType, body string) error
}

// eventPublisher publishes domain events best effort. Failures are logged and never fail the
// request that produced the event.
type eventPublisher struct {
	sns      aws_pkg.SNSPublisher
	topicArn string
	queue    EventSender
	logger   *zap.Logger
}

func newEventPublisher(sns aws_pkg.SNSPublisher, topicArn string, queue EventSender, logger *zap.Logger) *eventPublisher {
	return &eventPublisher{sns: sns, topicArn: topicArn, queue: queue, logger: logger}
}

func (p *eventPublisher) publish(ctx context.Context, eventType string, event interface{}, fields ...zap.Field) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	fields = append(fields, zap.String("event_type", eventType))
	if p.sns == nil || p.topicArn == "" {
		p.logger.Debug("SNS client not configured, skipping event", fields...)
	} else if err := p.sns.Publish(ctx, p.topicArn, body); err != nil {
		p.logger.Error("Failed to publish event", append(fields, zap.Error(err))...)
	} else {
		p.logger.Info("Published event", fields...)
	}

	if p.queue != nil {
		if err := p.queue.SendEvent(ctx, eventType, string(body)); err != nil {
			p.logger.Error("Failed to enqueue event", append(fields, zap.Error(err))...)
		}
	}
}
