// Package report delivers verdicts to the AWS Config evaluation pipeline.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	cstypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"

	"credsentry/internal/domain"
)

// putEvaluationsBatchSize is the PutEvaluations API limit per call.
const putEvaluationsBatchSize = 100

// maxAnnotationLength is the Config service limit on annotation text.
const maxAnnotationLength = 256

// configAPI is the subset of the Config service client used by the reporter.
type configAPI interface {
	PutEvaluations(ctx context.Context, params *configservice.PutEvaluationsInput, optFns ...func(*configservice.Options)) (*configservice.PutEvaluationsOutput, error)
}

// ConfigReporter submits verdicts to AWS Config via PutEvaluations.
type ConfigReporter struct {
	api      configAPI
	testMode bool
	now      func() time.Time
}

// NewConfigReporter creates a ConfigReporter. testMode marks submissions
// as dry runs, so Config validates but does not record them.
func NewConfigReporter(api configAPI, testMode bool) *ConfigReporter {
	return &ConfigReporter{api: api, testMode: testMode, now: time.Now}
}

// Report submits the verdicts under the given result token, batched at the
// API limit. A rejected evaluation in any batch fails the whole report.
func (r *ConfigReporter) Report(ctx context.Context, resultToken string, verdicts []domain.Verdict) error {
	timestamp := r.now()

	for start := 0; start < len(verdicts); start += putEvaluationsBatchSize {
		end := start + putEvaluationsBatchSize
		if end > len(verdicts) {
			end = len(verdicts)
		}

		batch := make([]cstypes.Evaluation, 0, end-start)
		for _, v := range verdicts[start:end] {
			batch = append(batch, cstypes.Evaluation{
				ComplianceResourceId:   aws.String(v.PrincipalID),
				ComplianceResourceType: aws.String(v.ResourceType),
				ComplianceType:         cstypes.ComplianceType(v.Outcome),
				Annotation:             aws.String(truncateAnnotation(v.Annotation)),
				OrderingTimestamp:      aws.Time(timestamp),
			})
		}

		out, err := r.api.PutEvaluations(ctx, &configservice.PutEvaluationsInput{
			Evaluations: batch,
			ResultToken: aws.String(resultToken),
			TestMode:    r.testMode,
		})
		if err != nil {
			return fmt.Errorf("put evaluations: %w", err)
		}
		if len(out.FailedEvaluations) > 0 {
			return fmt.Errorf("put evaluations: %d evaluation(s) rejected", len(out.FailedEvaluations))
		}
	}

	return nil
}

func truncateAnnotation(s string) string {
	if len(s) <= maxAnnotationLength {
		return s
	}
	return s[:maxAnnotationLength]
}

// NopReporter discards verdicts. Used outside the Lambda deployment,
// where results are persisted locally instead of submitted to Config.
type NopReporter struct{}

// Report implements domain.EvaluationReporter as a no-op.
func (NopReporter) Report(_ context.Context, _ string, _ []domain.Verdict) error { return nil }

var (
	_ domain.EvaluationReporter = (*ConfigReporter)(nil)
	_ domain.EvaluationReporter = NopReporter{}
)
