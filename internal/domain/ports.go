package domain

import "context"

// PrincipalLister enumerates the account's IAM users one page at a time.
// A nil marker requests the first page.
type PrincipalLister interface {
	ListPrincipals(ctx context.Context, marker *string) (*PrincipalPage, error)
}

// CredentialLister returns one page of a principal's service-specific
// credentials. serviceName and marker are optional; implementations must
// omit them from the outbound request entirely when nil; the backing API
// rejects explicit empty values.
type CredentialLister interface {
	ListCredentials(ctx context.Context, principalName string, serviceName, marker *string) (*CredentialPage, error)
}

// EvaluationReporter delivers a run's verdicts to the evaluation-result
// pipeline (AWS Config for the Lambda deployment).
type EvaluationReporter interface {
	Report(ctx context.Context, resultToken string, verdicts []Verdict) error
}

// RunRepository persists check runs and their verdicts.
type RunRepository interface {
	InsertRun(ctx context.Context, run *CheckRun, verdicts []Verdict) error
	GetRun(ctx context.Context, id string) (*CheckRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]CheckRun, int64, error)
	ListVerdicts(ctx context.Context, runID string) ([]Verdict, error)
}
