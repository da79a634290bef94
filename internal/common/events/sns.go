// internal/common/events/sns.go
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"
)

const (
	OutcomeCompleted = "completed"
	OutcomeHalted    = "halted"
)

// PublishAPI is the subset of the SNS client the publisher needs.
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// RunEvent is the message body published once per pipeline run.
type RunEvent struct {
	RunID            string    `json:"runId"`
	Outcome          string    `json:"outcome"`
	ExecutionMode    string    `json:"executionMode"`
	ClarityScore     int       `json:"clarityScore"`
	PendingQuestions int       `json:"pendingQuestions,omitempty"`
	StabilityScore   int       `json:"stabilityScore,omitempty"`
	RiskLevel        string    `json:"riskLevel,omitempty"`
	Archetype        string    `json:"archetype,omitempty"`
	TotalRepairs     int       `json:"totalRepairs"`
	OccurredAt       time.Time `json:"occurredAt"`
}

type SNSPublisher struct {
	client   PublishAPI
	topicARN string
	logger   logger.Logger
	now      func() time.Time
}

// NewSNSPublisher loads the default AWS credential chain for region.
func NewSNSPublisher(ctx context.Context, region, topicARN string, log logger.Logger) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSPublisherWithClient(sns.NewFromConfig(cfg), topicARN, log), nil
}

func NewSNSPublisherWithClient(client PublishAPI, topicARN string, log logger.Logger) *SNSPublisher {
	return &SNSPublisher{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "events", "topic": topicARN}),
		now:      time.Now,
	}
}

func NewRunEvent(bp *models.Blueprint, now time.Time) RunEvent {
	event := RunEvent{
		RunID:         bp.RunID,
		Outcome:       OutcomeCompleted,
		ExecutionMode: bp.ExecutionMode,
		ClarityScore:  bp.Clarification.ClarityScore,
		TotalRepairs:  bp.ExecutionAudit.TotalRepairs,
		OccurredAt:    now.UTC(),
	}
	if bp.Halted() {
		event.Outcome = OutcomeHalted
		event.PendingQuestions = len(bp.Clarification.Questions)
		return event
	}
	event.StabilityScore = bp.StabilityScore
	event.RiskLevel = string(bp.RiskLevel)
	event.Archetype = string(bp.Archetype.SelectedArchetype)
	return event
}

func (p *SNSPublisher) Publish(ctx context.Context, event RunEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewEventPublishError(p.topicARN, err)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("blueprint-run-" + event.Outcome),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"outcome": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Outcome),
			},
			"executionMode": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.ExecutionMode),
			},
		},
	})
	if err != nil {
		return apperrors.NewEventPublishError(p.topicARN, err)
	}

	p.logger.Debug("run event published", map[string]interface{}{
		"runId":     event.RunID,
		"outcome":   event.Outcome,
		"messageId": aws.ToString(out.MessageId),
	})
	return nil
}

func (p *SNSPublisher) Name() string { return "events" }

func (p *SNSPublisher) Accept(ctx context.Context, bp *models.Blueprint) error {
	return p.Publish(ctx, NewRunEvent(bp, p.now()))
}
