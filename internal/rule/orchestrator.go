package rule

import (
	"context"
	"fmt"
	"log/slog"

	"credsentry/internal/domain"
)

// principalEvaluator is the per-principal evaluation the orchestrator drives.
type principalEvaluator interface {
	Evaluate(ctx context.Context, principal domain.Principal, serviceName *string) (domain.Verdict, error)
}

// Orchestrator runs the check across every principal in the account,
// sequentially and in enumeration order.
type Orchestrator struct {
	principals domain.PrincipalLister
	evaluator  principalEvaluator
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(principals domain.PrincipalLister, evaluator principalEvaluator, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{principals: principals, evaluator: evaluator, logger: logger}
}

// Run evaluates every principal and returns exactly one verdict per
// principal, in enumeration order. A failed per-principal evaluation is
// logged and converted to a NON_COMPLIANT verdict pointing at the logs;
// an inspection failure is over-reported rather than skipped.
// A failure enumerating principals is fatal: the error is logged and
// returned with no partial verdict list.
func (o *Orchestrator) Run(ctx context.Context, params domain.RuleParameters) ([]domain.Verdict, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	verdicts := []domain.Verdict{}
	var marker *string
	for {
		page, err := o.principals.ListPrincipals(ctx, marker)
		if err != nil {
			o.logger.Error("failure listing principals", "error", err)
			return nil, fmt.Errorf("list principals: %w", err)
		}

		for _, principal := range page.Principals {
			verdict, err := o.evaluator.Evaluate(ctx, principal, params.ServiceName)
			if err != nil {
				o.logger.Error("encountered error checking credentials",
					"principal_id", principal.ID,
					"error", err,
				)
				verdict = domain.Verdict{
					PrincipalID:  principal.ID,
					Outcome:      domain.OutcomeNonCompliant,
					ResourceType: domain.ResourceType,
					Annotation:   annotationCheckError,
				}
			}
			verdicts = append(verdicts, verdict)
		}

		if !page.Truncated {
			break
		}
		marker = page.Marker
	}

	return verdicts, nil
}
