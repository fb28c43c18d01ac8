package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	ebscheduler "github.com/aws/aws-sdk-go-v2/service/scheduler"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/scheduler/types"
)

// Ensure EventBridgeTriggers implements TriggerService
var _ TriggerService = (*EventBridgeTriggers)(nil)

// EventBridgeTriggers registers one-shot schedules against EventBridge
// Scheduler. Schedules are created with delete-after-completion, so a
// fired trigger cleans itself up.
type EventBridgeTriggers struct {
	client    *ebscheduler.Client
	groupName string
	targetArn string
	roleArn   string
}

// NewEventBridgeTriggers loads the ambient AWS config and builds the
// trigger client. targetArn is the handler invoked on fire; roleArn
// must be assumable by the scheduler service.
func NewEventBridgeTriggers(ctx context.Context, groupName, targetArn, roleArn string) (*EventBridgeTriggers, error) {
	if targetArn == "" || roleArn == "" {
		return nil, fmt.Errorf("scheduler target ARN and role ARN are required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EventBridgeTriggers{
		client:    ebscheduler.NewFromConfig(cfg),
		groupName: groupName,
		targetArn: targetArn,
		roleArn:   roleArn,
	}, nil
}

// UpsertOneShot creates the named schedule, or updates it in place when
// it already exists. The "already exists" conflict is the service's
// distinguishable condition, not a failure.
func (e *EventBridgeTriggers) UpsertOneShot(ctx context.Context, name string, fireAt time.Time, payloadJSON string) error {
	expr := atExpression(fireAt)

	_, err := e.client.CreateSchedule(ctx, &ebscheduler.CreateScheduleInput{
		Name:                       aws.String(name),
		GroupName:                  e.group(),
		ScheduleExpression:         aws.String(expr),
		ScheduleExpressionTimezone: aws.String("UTC"),
		ActionAfterCompletion:      ebtypes.ActionAfterCompletionDelete,
		FlexibleTimeWindow: &ebtypes.FlexibleTimeWindow{
			Mode: ebtypes.FlexibleTimeWindowModeOff,
		},
		Target: &ebtypes.Target{
			Arn:     aws.String(e.targetArn),
			RoleArn: aws.String(e.roleArn),
			Input:   aws.String(payloadJSON),
		},
	})
	if err == nil {
		slog.Info("trigger created", "name", name, "fire_at", expr)
		return nil
	}

	var conflict *ebtypes.ConflictException
	if !errors.As(err, &conflict) {
		return fmt.Errorf("failed to create schedule %s: %w", name, err)
	}

	_, err = e.client.UpdateSchedule(ctx, &ebscheduler.UpdateScheduleInput{
		Name:                       aws.String(name),
		GroupName:                  e.group(),
		ScheduleExpression:         aws.String(expr),
		ScheduleExpressionTimezone: aws.String("UTC"),
		ActionAfterCompletion:      ebtypes.ActionAfterCompletionDelete,
		FlexibleTimeWindow: &ebtypes.FlexibleTimeWindow{
			Mode: ebtypes.FlexibleTimeWindowModeOff,
		},
		Target: &ebtypes.Target{
			Arn:     aws.String(e.targetArn),
			RoleArn: aws.String(e.roleArn),
			Input:   aws.String(payloadJSON),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update schedule %s: %w", name, err)
	}
	slog.Info("trigger updated", "name", name, "fire_at", expr)
	return nil
}

func (e *EventBridgeTriggers) group() *string {
	if e.groupName == "" {
		return nil
	}
	return aws.String(e.groupName)
}

// atExpression renders a one-time schedule expression in UTC.
func atExpression(t time.Time) string {
	return fmt.Sprintf("at(%s)", t.UTC().Format("2006-01-02T15:04:05"))
}
