// Package pipeline orchestrates the audit stages. Stages run in a fixed
// order; only the dependency gate can abort the run, every other failure is
// recorded as a finding and execution continues.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/secrets"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
)

// Stage is one self-contained phase of the pipeline.
type Stage interface {
	Name() string
	// Run executes the stage, recording findings as it goes. A non-nil
	// error aborts the whole pipeline; stages other than the dependency
	// gate must swallow tool failures into warnings instead.
	Run(ctx context.Context, log *finding.Log) error
}

// Session carries cross-stage state for one pipeline run. All paths are
// threaded explicitly; stages never rely on the process working directory.
type Session struct {
	ProjectDir  string
	FrontendDir string
	BackendDir  string
	ReportDir   string
	SkipInstall bool

	// PythonInterpreter is resolved by the dependency gate.
	PythonInterpreter string

	// Completion flags consumed by the report stage.
	FrontendAudited   bool
	SecretScanRan     bool
	EnvFilesChecked   bool
	GitHygieneChecked bool

	// ReportPath is set by the report stage on success.
	ReportPath string
}

// PathResolver resolves executables on the command search path.
type PathResolver interface {
	LookPath(name string) (string, error)
}

// Orchestrator runs stages in fixed sequence.
type Orchestrator struct {
	Stages []Stage
	Logger *zap.SugaredLogger
	// OnStageDone, when set, is invoked after each completed stage.
	OnStageDone func(name string, duration time.Duration)
}

// Run executes every stage in order and seals the log afterwards. The
// returned error is non-nil only when a stage aborted the run.
func (o *Orchestrator) Run(ctx context.Context, log *finding.Log) error {
	defer log.Seal()

	for _, stage := range o.Stages {
		if o.Logger != nil {
			o.Logger.Infow("stage starting", "stage", stage.Name())
		}
		start := time.Now()
		if err := stage.Run(ctx, log); err != nil {
			if o.Logger != nil {
				o.Logger.Errorw("stage aborted the run", "stage", stage.Name(), "error", err)
			}
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
		if o.Logger != nil {
			o.Logger.Infow("stage finished", "stage", stage.Name())
		}
		if o.OnStageDone != nil {
			o.OnStageDone(stage.Name(), time.Since(start))
		}
	}
	return nil
}

// Config collects the inputs needed to assemble the default pipeline.
type Config struct {
	ProjectDir  string
	FrontendDir string
	BackendDir  string
	ReportDir   string
	SkipInstall bool
	Denylist    []string
}

// New wires the six stages with their real tool variants. It returns the
// orchestrator together with the session so callers can read run state
// afterwards (report path, completion flags).
func New(cfg Config, runner toolchain.CommandRunner, resolver PathResolver, logger *zap.SugaredLogger) (*Orchestrator, *Session) {
	session := &Session{
		ProjectDir:  cfg.ProjectDir,
		FrontendDir: cfg.FrontendDir,
		BackendDir:  cfg.BackendDir,
		ReportDir:   cfg.ReportDir,
		SkipInstall: cfg.SkipInstall,
	}

	denylist := cfg.Denylist
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}

	orchestrator := &Orchestrator{
		Logger: logger,
		Stages: []Stage{
			&DependencyGate{Session: session, Resolver: resolver},
			&FrontendStage{Session: session, Auditor: &toolchain.NPM{Runner: runner}, Denylist: denylist},
			&BackendStage{
				Session: session,
				Env:     &toolchain.PythonEnv{Runner: runner},
				Scanner: &toolchain.Bandit{Runner: runner},
				Checker: &toolchain.Safety{Runner: runner},
				Secrets: secrets.NewScanner(),
			},
			&EnvFileStage{Session: session},
			&VCSStage{Session: session, History: &toolchain.GitHistory{Runner: runner}},
			&ReportStage{Session: session},
		},
	}
	return orchestrator, session
}
