// Package builder implements the Judge Builder: from a problem package plus
// a contestant source file, produce a BuiltJudge ready for the Per-Judge
// Aggregator to iterate — testdata list, compiled program, resolved
// checker, and the runtime limit set, all assembled once per submission.
package builder

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/oj-lab/judger/internal/compiler"
	"github.com/oj-lab/judger/internal/icpc"
	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/logger"
	"github.com/oj-lab/judger/internal/pkgagent"
)

// Registry maps a package type to the Agent that loads it. The zero value
// is unusable; use DefaultRegistry or Register to populate one.
type Registry map[pkgagent.Type]pkgagent.Agent

// DefaultRegistry returns a Registry pre-populated with the package formats
// this repository ships an Agent for (ICPC only, today).
func DefaultRegistry() Registry {
	return Registry{
		pkgagent.ICPC: icpc.New(),
	}
}

// Input names everything the Builder needs to assemble one BuiltJudge.
type Input struct {
	PackageType pkgagent.Type
	PackagePath string
	RuntimePath string
	Language    langspec.Language
	SrcPath     string

	// Templates overrides compiler.DefaultTemplates when non-nil, letting a
	// caller that loaded config.Config.Languages entries substitute its own
	// per-language compile recipe.
	Templates map[langspec.Language]compiler.Template
}

const programBinaryName = "program"

// BuiltJudge is the reusable, per-submission result of Build: a testdata
// list plus the shared program/checker/runtime configuration the Aggregator
// clones once per test case.
type BuiltJudge struct {
	Testdata []judgecfg.TestdataConfig
	Runtime  judgecfg.RuntimeConfig
	Program  judgecfg.ProgramConfig
	Checker  judgecfg.CheckerConfig
}

// Builder assembles BuiltJudge values using a Registry of package agents.
type Builder struct {
	Agents Registry
}

// New returns a Builder backed by agents, or DefaultRegistry() if agents is
// nil.
func New(agents Registry) *Builder {
	if agents == nil {
		agents = DefaultRegistry()
	}
	return &Builder{Agents: agents}
}

// Build runs five steps in order: create the runtime directory, load
// limits, load testdata, compile the program, and resolve the checker. A
// compile failure is returned as a *judgeerr.Error
// with judgeerr.CompileFailed — the caller (cmd/judger's judge subcommand)
// maps that straight to the CompileError verdict without running any test
// case.
func (b *Builder) Build(ctx context.Context, in Input) (*BuiltJudge, error) {
	agent, ok := b.Agents[in.PackageType]
	if !ok {
		return nil, judgeerr.New(judgeerr.PackageInvalid).WithDetail("package_type", string(in.PackageType))
	}
	if !agent.Validate(in.PackagePath) {
		return nil, judgeerr.New(judgeerr.PackageInvalid).WithDetail("package_path", in.PackagePath)
	}
	if _, err := os.Stat(in.SrcPath); err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SourceNotExist, "source path %q", in.SrcPath)
	}

	if err := os.MkdirAll(in.RuntimePath, 0o755); err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.Internal, "create runtime path %s", in.RuntimePath)
	}

	limits, err := agent.RlimitConfigs(in.PackagePath)
	if err != nil {
		return nil, err
	}

	testdata, err := agent.LoadTestdata(in.PackagePath)
	if err != nil {
		return nil, err
	}
	if err := agent.CopyTestdata(in.PackagePath, in.RuntimePath, testdata); err != nil {
		return nil, err
	}

	templates := in.Templates
	if templates == nil {
		templates = compiler.DefaultTemplates
	}
	binPath := filepath.Join(in.RuntimePath, programBinaryName)
	compileOut, err := compiler.CompileWith(ctx, templates, in.Language, in.SrcPath, binPath)
	if err != nil {
		return nil, err
	}
	if compileOut != "" {
		logger.Debug(ctx, "compile output", zap.String("src_path", in.SrcPath), zap.String("output", compileOut))
	}

	executor, err := langspec.NewExecutor(in.Language, binPath)
	if err != nil {
		return nil, err
	}

	checkerCfg, err := agent.LoadChecker(ctx, in.PackagePath)
	if err != nil {
		return nil, err
	}
	if checkerCfg == nil {
		checkerCfg = &judgecfg.CheckerConfig{}
	}
	if checkerCfg.OutputFilePath == "" {
		checkerCfg.OutputFilePath = filepath.Join(in.RuntimePath, "checker.out")
	}

	testdataConfigs := make([]judgecfg.TestdataConfig, len(testdata))
	for i, td := range testdata {
		testdataConfigs[i] = judgecfg.TestdataConfig{
			InputFilePath:  td.InputFilePath,
			AnswerFilePath: td.AnswerFilePath,
		}
	}

	return &BuiltJudge{
		Testdata: testdataConfigs,
		Runtime:  judgecfg.RuntimeConfig{Limits: limits},
		Program: judgecfg.ProgramConfig{
			Executor:       executor,
			OutputFilePath: filepath.Join(in.RuntimePath, "program.out"),
		},
		Checker: *checkerCfg,
	}, nil
}
