// Package rule implements the compliance check: an IAM user is compliant
// iff none of its service-specific credentials (optionally restricted to
// one service name) is in Active status.
package rule

import (
	"context"
	"fmt"

	"credsentry/internal/domain"
)

// Annotations attached to verdicts. The error annotation points operators
// at the run logs, where the underlying failure is recorded.
const (
	annotationCompliant  = "No active ServiceSpecific credentials found"
	annotationCheckError = "Encountered error checking credentials. Check custom rule lambda logs"
)

// Evaluator produces one verdict per principal by walking its
// service-specific credentials page by page.
type Evaluator struct {
	creds domain.CredentialLister
}

// NewEvaluator creates an Evaluator backed by the given credential lister.
func NewEvaluator(creds domain.CredentialLister) *Evaluator {
	return &Evaluator{creds: creds}
}

// Evaluate scans the principal's credentials in listing order and returns
// NON_COMPLIANT as soon as an Active one is found, naming that credential
// in the annotation; no further pages are fetched after a match. If every
// page is exhausted without a match the principal is COMPLIANT.
//
// Fetch errors propagate unchanged; no recovery happens at this level.
func (e *Evaluator) Evaluate(ctx context.Context, principal domain.Principal, serviceName *string) (domain.Verdict, error) {
	var marker *string
	for {
		page, err := e.creds.ListCredentials(ctx, principal.Name, serviceName, marker)
		if err != nil {
			return domain.Verdict{}, err
		}
		for _, cred := range page.Credentials {
			if cred.Status == domain.CredentialStatusActive {
				return domain.Verdict{
					PrincipalID:  principal.ID,
					Outcome:      domain.OutcomeNonCompliant,
					ResourceType: domain.ResourceType,
					Annotation:   fmt.Sprintf("Active service specific credential found: %s", cred.ID),
				}, nil
			}
		}
		// A response without a truncation flag is a single, complete page.
		if !page.Truncated {
			break
		}
		marker = page.Marker
	}

	return domain.Verdict{
		PrincipalID:  principal.ID,
		Outcome:      domain.OutcomeCompliant,
		ResourceType: domain.ResourceType,
		Annotation:   annotationCompliant,
	}, nil
}
