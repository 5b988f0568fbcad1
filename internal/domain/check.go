package domain

// ResourceType is the AWS Config resource type this rule reports on.
const ResourceType = "AWS::IAM::User"

// CredentialStatus is the lifecycle status of a service-specific credential.
type CredentialStatus string

// CredentialStatusActive marks a credential that can currently authenticate.
// Any other status (IAM uses "Inactive") is treated as not active.
const CredentialStatusActive CredentialStatus = "Active"

// Principal is an IAM user under evaluation. ID is the stable UserId used
// for reporting; Name is the UserName the credential APIs key on.
type Principal struct {
	ID   string
	Name string
}

// PrincipalPage is one page of a paginated principal listing.
// Marker is only meaningful when Truncated is true.
type PrincipalPage struct {
	Principals []Principal
	Truncated  bool
	Marker     *string
}

// Credential is a single service-specific credential attached to a principal.
type Credential struct {
	ID          string
	ServiceName string
	Status      CredentialStatus
}

// CredentialPage is one page of a principal's service-specific credentials.
// Truncated is false for non-paginated responses; Marker is the continuation
// token for the next page when Truncated is true.
type CredentialPage struct {
	Credentials []Credential
	Truncated   bool
	Marker      *string
}

// Outcome is the compliance outcome of evaluating one principal.
type Outcome string

const (
	OutcomeCompliant    Outcome = "COMPLIANT"
	OutcomeNonCompliant Outcome = "NON_COMPLIANT"
)

// Verdict is the evaluation result for a single principal.
type Verdict struct {
	PrincipalID  string
	Outcome      Outcome
	ResourceType string
	Annotation   string
}

// RuleParameters holds the optional parameters for one rule run.
// ServiceName, when set, restricts the check to credentials for that
// service; nil means all service names.
type RuleParameters struct {
	ServiceName *string
}

// Validate rejects parameter values the IAM API would refuse.
// An explicitly empty ServiceName is invalid; the listing API rejects
// empty filters rather than treating them as "match nothing".
func (p RuleParameters) Validate() error {
	if p.ServiceName != nil && *p.ServiceName == "" {
		return ErrValidation("ServiceName must not be empty when provided")
	}
	return nil
}
