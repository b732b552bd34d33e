package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventSink stores tracked analytics events.
type EventSink interface {
	Record(ctx context.Context, event *models.AnalyticsEvent) error
}

// GormEventSink writes events to the analytics_events table.
type GormEventSink struct {
	db *gorm.DB
}

// NewGormEventSink creates a new GormEventSink.
func NewGormEventSink(db *gorm.DB) EventSink {
	return &GormEventSink{db: db}
}

func (s *GormEventSink) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

// dynamoEventRecord is the DynamoDB item shape. Keys are strings so the table can be queried by
// event type and time without decoding binary ids.
type dynamoEventRecord struct {
	ID         string `dynamodbav:"id"`
	EventType  string `dynamodbav:"event_type"`
	UserID     string `dynamodbav:"user_id,omitempty"`
	SessionID  string `dynamodbav:"session_id,omitempty"`
	Properties string `dynamodbav:"properties,omitempty"`
	CreatedAt  string `dynamodbav:"created_at"`
}

// DynamoEventSink writes events to a DynamoDB table.
type DynamoEventSink struct {
	client aws_pkg.DynamoPutter
	table  string
}

// NewDynamoEventSink creates a new DynamoEventSink.
func NewDynamoEventSink(client aws_pkg.DynamoPutter, table string) EventSink {
	return &DynamoEventSink{client: client, table: table}
}

func (s *DynamoEventSink) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	record := dynamoEventRecord{
		ID:        event.ID.String(),
		EventType: event.EventType,
		CreatedAt: event.CreatedAt.Format(time.RFC3339Nano),
	}
	if event.UserID != nil {
		record.UserID = event.UserID.String()
	}
	if event.SessionID != nil {
		record.SessionID = *event.SessionID
	}
	if len(event.Properties) > 0 {
		props, err := json.Marshal(event.Properties)
		if err != nil {
			return err
		}
		record.Properties = string(props)
	}
	return aws_pkg.PutItem(ctx, s.client, s.table, record)
}
