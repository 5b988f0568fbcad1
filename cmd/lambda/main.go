// Package main is the AWS Lambda entrypoint for the Config custom rule.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"credsentry/internal/awsiam"
	"credsentry/internal/handler"
	"credsentry/internal/report"
	"credsentry/internal/rule"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	h, err := buildHandler(context.Background(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func buildHandler(ctx context.Context, logger *slog.Logger) (*handler.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	iamClient := iam.NewFromConfig(awsCfg)
	evaluator := rule.NewEvaluator(awsiam.NewCredentialLister(iamClient))
	orchestrator := rule.NewOrchestrator(
		awsiam.NewUserLister(iamClient),
		evaluator,
		logger.With("component", "orchestrator"),
	)

	testMode := strings.EqualFold(os.Getenv("CONFIG_RULE_TEST_MODE"), "true")
	reporter := report.NewConfigReporter(configservice.NewFromConfig(awsCfg), testMode)

	return handler.New(orchestrator, reporter, logger.With("component", "handler")), nil
}
