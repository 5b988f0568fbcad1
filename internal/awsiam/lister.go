package awsiam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"credsentry/internal/domain"
)

// iamAPI is the subset of the IAM client used by the listers.
type iamAPI interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListServiceSpecificCredentials(ctx context.Context, params *iam.ListServiceSpecificCredentialsInput, optFns ...func(*iam.Options)) (*iam.ListServiceSpecificCredentialsOutput, error)
}

// UserLister implements domain.PrincipalLister over IAM ListUsers.
type UserLister struct {
	api iamAPI
}

// NewUserLister creates a UserLister.
func NewUserLister(api iamAPI) *UserLister {
	return &UserLister{api: api}
}

// ListPrincipals returns one page of IAM users. A nil marker requests the
// first page and is omitted from the request.
func (l *UserLister) ListPrincipals(ctx context.Context, marker *string) (*domain.PrincipalPage, error) {
	out, err := l.api.ListUsers(ctx, &iam.ListUsersInput{Marker: marker})
	if err != nil {
		return nil, err
	}

	page := &domain.PrincipalPage{
		Principals: make([]domain.Principal, 0, len(out.Users)),
		Truncated:  out.IsTruncated,
		Marker:     out.Marker,
	}
	for _, u := range out.Users {
		page.Principals = append(page.Principals, domain.Principal{
			ID:   aws.ToString(u.UserId),
			Name: aws.ToString(u.UserName),
		})
	}
	return page, nil
}

// CredentialLister implements domain.CredentialLister over IAM
// ListServiceSpecificCredentials.
type CredentialLister struct {
	api iamAPI
}

// NewCredentialLister creates a CredentialLister.
func NewCredentialLister(api iamAPI) *CredentialLister {
	return &CredentialLister{api: api}
}

// ListCredentials fetches one page of a user's service-specific
// credentials. serviceName and marker are passed through as-is: nil
// pointers leave the corresponding request fields unset, so they are
// absent from the outbound call rather than sent as empty values (the API
// rejects an explicit empty ServiceName or Marker). Errors from the API
// propagate unchanged; no retries, no logging.
func (l *CredentialLister) ListCredentials(ctx context.Context, principalName string, serviceName, marker *string) (*domain.CredentialPage, error) {
	out, err := l.api.ListServiceSpecificCredentials(ctx, &iam.ListServiceSpecificCredentialsInput{
		UserName:    aws.String(principalName),
		ServiceName: serviceName,
		Marker:      marker,
	})
	if err != nil {
		return nil, err
	}

	page := &domain.CredentialPage{
		Credentials: make([]domain.Credential, 0, len(out.ServiceSpecificCredentials)),
		Truncated:   out.IsTruncated,
		Marker:      out.Marker,
	}
	for _, c := range out.ServiceSpecificCredentials {
		page.Credentials = append(page.Credentials, domain.Credential{
			ID:          aws.ToString(c.ServiceSpecificCredentialId),
			ServiceName: aws.ToString(c.ServiceName),
			Status:      statusFromIAM(c.Status),
		})
	}
	return page, nil
}

func statusFromIAM(s iamtypes.StatusType) domain.CredentialStatus {
	return domain.CredentialStatus(s)
}
