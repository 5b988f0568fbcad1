package cli

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"credsentry/internal/awsiam"
	"credsentry/internal/config"
	internaldb "credsentry/internal/db"
	"credsentry/internal/db/repository"
	"credsentry/internal/domain"
	"credsentry/internal/rule"
	"credsentry/internal/service"
)

func newCheckCmd() *cobra.Command {
	var (
		serviceName string
		region      string
		endpoint    string
		noRecord    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the credential compliance check once",
		Long: "Evaluates every IAM user in the account and prints one verdict per user. " +
			"The run is recorded in the local history store unless --no-record is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			filter := cfg.ServiceName
			if cmd.Flags().Changed("service-name") {
				if serviceName == "" {
					return fmt.Errorf("--service-name must not be empty")
				}
				filter = &serviceName
			}
			if region != "" {
				cfg.AWS.Region = region
			}
			if endpoint != "" {
				cfg.AWS.EndpointURL = endpoint
			}

			ctx := cmd.Context()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

			iamClient, err := awsiam.NewClient(ctx, awsiam.ClientConfig{
				Region:          cfg.AWS.Region,
				AccessKeyID:     cfg.AWS.AccessKeyID,
				SecretAccessKey: cfg.AWS.SecretAccessKey,
				EndpointURL:     cfg.AWS.EndpointURL,
			})
			if err != nil {
				return fmt.Errorf("iam client: %w", err)
			}

			orchestrator := rule.NewOrchestrator(
				awsiam.NewUserLister(iamClient),
				rule.NewEvaluator(awsiam.NewCredentialLister(iamClient)),
				logger.With("component", "orchestrator"),
			)

			var verdicts []domain.Verdict
			var run *domain.CheckRun
			if noRecord {
				verdicts, err = orchestrator.Run(ctx, domain.RuleParameters{ServiceName: filter})
				if err != nil {
					return err
				}
			} else {
				writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 1)
				if err != nil {
					return fmt.Errorf("open run-history store: %w", err)
				}
				defer writeDB.Close() //nolint:errcheck
				defer readDB.Close()  //nolint:errcheck
				if err := internaldb.RunMigrations(writeDB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}

				checkSvc := service.NewCheckService(orchestrator, repository.NewRunRepo(writeDB, readDB), logger)
				run, verdicts, err = checkSvc.RunCheck(ctx, domain.TriggerManual, filter)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == "json" {
				return printVerdictsJSON(out, run, verdicts)
			}
			printVerdictsTable(out, verdicts)
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceName, "service-name", "", "restrict the check to one service name")
	cmd.Flags().StringVar(&region, "region", "", "AWS region override")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "AWS endpoint override (e.g. localstack)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the run in the history store")

	return cmd
}
