package rule

import (
	"context"
	"errors"

	"credsentry/internal/domain"
)

var errTest = errors.New("boom")

// === Credential Lister Mock ===

type mockCredentialLister struct {
	listFn func(ctx context.Context, principalName string, serviceName, marker *string) (*domain.CredentialPage, error)
	calls  int
}

func (m *mockCredentialLister) ListCredentials(ctx context.Context, principalName string, serviceName, marker *string) (*domain.CredentialPage, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx, principalName, serviceName, marker)
	}
	panic("unexpected call to mockCredentialLister.ListCredentials")
}

// pagedCredentialLister serves a fixed sequence of pages, one per call.
type pagedCredentialLister struct {
	pages   []*domain.CredentialPage
	calls   int
	markers []*string // markers observed on each call
}

func (m *pagedCredentialLister) ListCredentials(_ context.Context, _ string, _, marker *string) (*domain.CredentialPage, error) {
	m.markers = append(m.markers, marker)
	if m.calls >= len(m.pages) {
		panic("pagedCredentialLister exhausted")
	}
	page := m.pages[m.calls]
	m.calls++
	return page, nil
}

// === Principal Lister Mock ===

type mockPrincipalLister struct {
	listFn func(ctx context.Context, marker *string) (*domain.PrincipalPage, error)
	calls  int
}

func (m *mockPrincipalLister) ListPrincipals(ctx context.Context, marker *string) (*domain.PrincipalPage, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx, marker)
	}
	panic("unexpected call to mockPrincipalLister.ListPrincipals")
}

// singlePagePrincipals returns a lister that serves one final page.
func singlePagePrincipals(principals ...domain.Principal) *mockPrincipalLister {
	return &mockPrincipalLister{
		listFn: func(_ context.Context, _ *string) (*domain.PrincipalPage, error) {
			return &domain.PrincipalPage{Principals: principals}, nil
		},
	}
}

// === Evaluator Mock ===

type mockEvaluator struct {
	evaluateFn func(ctx context.Context, principal domain.Principal, serviceName *string) (domain.Verdict, error)
}

func (m *mockEvaluator) Evaluate(ctx context.Context, principal domain.Principal, serviceName *string) (domain.Verdict, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, principal, serviceName)
	}
	panic("unexpected call to mockEvaluator.Evaluate")
}
