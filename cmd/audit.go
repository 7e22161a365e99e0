package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/stackaudit/internal/application/pipeline"
	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	persistence "github.com/khanhnv2901/stackaudit/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
)

const pipelineStageCount = 6

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full security audit pipeline against a project",
	Long: `Audit a full-stack web project in six sequential stages:

- Preflight: verify node, npm and a python interpreter are on PATH
- Frontend: install dependencies, npm audit, unsafe-package and outdated checks
- Backend: isolated python environment, bandit, safety, hardcoded-secret scan
- Env files: permissions, example variants and key parity
- VCS hygiene: ignore rules and commit-history keyword scan
- Report: timestamped markdown summary

Only the preflight stage can fail the run; every tool failure elsewhere is
downgraded to a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := filepath.Abs(cliConfig.ProjectDir)
		if err != nil {
			return fmt.Errorf("resolve project directory: %w", err)
		}

		reportDir := cliConfig.ReportDir
		if reportDir == "" {
			reportDir = projectDir
		}

		cfg := pipeline.Config{
			ProjectDir:  projectDir,
			FrontendDir: resolveDir(projectDir, cliConfig.FrontendDir),
			BackendDir:  resolveDir(projectDir, cliConfig.BackendDir),
			ReportDir:   resolveDir(projectDir, reportDir),
			SkipInstall: cliConfig.SkipInstall,
			Denylist:    cliConfig.Denylist,
		}

		runner := &toolchain.ExecRunner{}
		if cliConfig.ToolRate > 0 {
			runner.Limiter = rate.NewLimiter(rate.Limit(cliConfig.ToolRate), 1)
		}

		log := finding.NewLog(func(f finding.Finding) {
			printFinding(f)
			logger.Infow("finding recorded", "stage", f.Stage, "severity", string(f.Severity), "message", f.Message)
		})

		orchestrator, session := pipeline.New(cfg, runner, runner, logger)

		var progress *progressPrinter
		if cliConfig.Progress {
			progress = newProgressPrinter(pipelineStageCount)
			progress.Start()
			orchestrator.OnStageDone = func(name string, duration time.Duration) {
				progress.StageDone(name, duration)
			}
		}

		startAll := time.Now()
		runErr := orchestrator.Run(cmd.Context(), log)
		if progress != nil {
			progress.Stop()
		}

		if runErr != nil {
			return fmt.Errorf("audit aborted: %w", runErr)
		}

		recordRunHistory(cfg.ReportDir, session, log, startAll)
		printRunSummary(session, log)
		return nil
	},
}

// resolveDir interprets dir relative to the project root unless absolute.
func resolveDir(projectDir, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectDir, dir)
}

func recordRunHistory(reportDir string, session *pipeline.Session, log *finding.Log, startedAt time.Time) {
	repo, err := persistence.NewRunRepository(reportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		return
	}
	record := persistence.RunRecord{
		StartedAt:   startedAt.UTC(),
		CompletedAt: time.Now().UTC(),
		ReportPath:  session.ReportPath,
		Warnings:    log.Count(finding.SeverityWarning),
		Errors:      log.Count(finding.SeverityError),
	}
	if err := repo.Append(record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run history: %v\n", err)
	}
}

func printRunSummary(session *pipeline.Session, log *finding.Log) {
	fmt.Println(colorSuccess("Audit complete."))
	if session.ReportPath != "" {
		fmt.Printf("%s %s\n", colorInfo("Report:"), session.ReportPath)
	}
	warnings := log.Count(finding.SeverityWarning)
	errors := log.Count(finding.SeverityError)
	switch {
	case errors > 0:
		fmt.Printf("Summary: %s, %s\n", colorError(fmt.Sprintf("%d error(s)", errors)), colorWarn(fmt.Sprintf("%d warning(s)", warnings)))
	case warnings > 0:
		fmt.Printf("Summary: %s\n", colorWarn(fmt.Sprintf("%d warning(s)", warnings)))
	default:
		fmt.Printf("Summary: %s\n", colorSuccess("no issues found"))
	}
}

func init() {
	runCmd.Flags().StringVarP(&cliConfig.ProjectDir, "project-dir", "p", cliConfig.ProjectDir, "project root to audit")
	runCmd.Flags().StringVar(&cliConfig.FrontendDir, "frontend-dir", cliConfig.FrontendDir, "frontend directory (relative to project root unless absolute)")
	runCmd.Flags().StringVar(&cliConfig.BackendDir, "backend-dir", cliConfig.BackendDir, "backend directory (relative to project root unless absolute)")
	runCmd.Flags().StringVar(&cliConfig.ReportDir, "report-dir", cliConfig.ReportDir, "directory for the generated report (defaults to project root)")
	runCmd.Flags().BoolVar(&cliConfig.SkipInstall, "skip-install", cliConfig.SkipInstall, "skip frontend dependency installation even when node_modules is missing")
	runCmd.Flags().Float64Var(&cliConfig.ToolRate, "tool-rate", cliConfig.ToolRate, "max external tool launches per second (0 = unlimited)")
	runCmd.Flags().BoolVar(&cliConfig.Progress, "progress", cliConfig.Progress, "display live stage progress")
}
