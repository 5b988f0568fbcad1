// Package app provides application-level wiring for the check server.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/iam"

	"credsentry/internal/api"
	"credsentry/internal/awsiam"
	"credsentry/internal/config"
	"credsentry/internal/db/repository"
	"credsentry/internal/rule"
	"credsentry/internal/scheduler"
	"credsentry/internal/service"
)

// Deps holds the external dependencies that main() must provide:
// database handles, config, the IAM client, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	IAM     *iam.Client
	Logger  *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Check     *service.CheckService
	Scheduler *scheduler.Scheduler
	Handler   *api.Handler
}

// New wires repositories, the rule pipeline, and the services from deps.
func New(deps Deps) *App {
	runRepo := repository.NewRunRepo(deps.WriteDB, deps.ReadDB)

	evaluator := rule.NewEvaluator(awsiam.NewCredentialLister(deps.IAM))
	orchestrator := rule.NewOrchestrator(
		awsiam.NewUserLister(deps.IAM),
		evaluator,
		deps.Logger.With("component", "orchestrator"),
	)

	checkSvc := service.NewCheckService(orchestrator, runRepo, deps.Logger.With("component", "check"))

	return &App{
		Check:     checkSvc,
		Scheduler: scheduler.New(checkSvc, deps.Cfg.ServiceName, deps.Logger.With("component", "scheduler")),
		Handler:   api.NewHandler(checkSvc, deps.Logger.With("component", "api")),
	}
}
