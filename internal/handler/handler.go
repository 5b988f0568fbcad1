// Package handler implements the AWS Config custom-rule entrypoint: it
// parses the invoking event, runs the check, and submits the verdicts
// back to Config under the event's result token.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"credsentry/internal/domain"
)

// messageTypeScheduled is the invoking-event message type for periodic rules.
const messageTypeScheduled = "ScheduledNotification"

// checkRunner runs one full evaluation across all principals.
type checkRunner interface {
	Run(ctx context.Context, params domain.RuleParameters) ([]domain.Verdict, error)
}

// Handler processes AWS Config periodic rule invocations.
type Handler struct {
	runner   checkRunner
	reporter domain.EvaluationReporter
	logger   *slog.Logger
}

// New creates a Handler.
func New(runner checkRunner, reporter domain.EvaluationReporter, logger *slog.Logger) *Handler {
	return &Handler{runner: runner, reporter: reporter, logger: logger}
}

// Handle runs the check for one Config invocation and reports the verdicts
// under the event's result token. A fatal evaluation or reporting failure
// is returned so the invocation itself fails.
func (h *Handler) Handle(ctx context.Context, event events.ConfigEvent) error {
	messageType, err := invokingMessageType(event.InvokingEvent)
	if err != nil {
		return err
	}
	if messageType != messageTypeScheduled {
		return domain.ErrValidation("unsupported message type %q: this rule is periodic only", messageType)
	}

	params, err := ParseRuleParameters(event.RuleParameters)
	if err != nil {
		return err
	}

	h.logger.Info("config rule invoked",
		"rule", event.ConfigRuleName,
		"account", event.AccountID,
	)

	verdicts, err := h.runner.Run(ctx, params)
	if err != nil {
		return err
	}

	if err := h.reporter.Report(ctx, event.ResultToken, verdicts); err != nil {
		return fmt.Errorf("report evaluations: %w", err)
	}

	h.logger.Info("evaluations submitted", "count", len(verdicts))
	return nil
}

// invokingMessageType extracts messageType from the raw invoking event.
func invokingMessageType(raw string) (string, error) {
	var invoking struct {
		MessageType string `json:"messageType"`
	}
	if err := json.Unmarshal([]byte(raw), &invoking); err != nil {
		return "", domain.ErrValidation("malformed invoking event: %v", err)
	}
	return invoking.MessageType, nil
}

// ParseRuleParameters decodes the event's ruleParameters JSON. Only the
// ServiceName key is read; an empty raw string means no parameters.
func ParseRuleParameters(raw string) (domain.RuleParameters, error) {
	if raw == "" {
		return domain.RuleParameters{}, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return domain.RuleParameters{}, domain.ErrValidation("malformed rule parameters: %v", err)
	}

	params := domain.RuleParameters{}
	if v, ok := fields["ServiceName"]; ok {
		params.ServiceName = &v
	}
	if err := params.Validate(); err != nil {
		return domain.RuleParameters{}, err
	}
	return params, nil
}
