// Package judgecfg holds the four-struct configuration split the judge core
// clones per test case: RuntimeConfig (shared across the whole submission),
// CheckerConfig and ProgramConfig (an Executor plus where its output goes),
// and TestdataConfig (one input/answer pair). Kept as four distinct types,
// not folded into one, because RuntimeConfig and the checker/program
// executors are shared across every test case while TestdataConfig differs
// per case — the Aggregator builds each case's JudgeConfig from a fresh
// TestdataConfig plus field-for-field copies of the other three, cloning the
// program/checker executors.
package judgecfg

import (
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/rlimit"
)

// RuntimeConfig is shared by every test case in a submission: the resource
// limits the user program runs under.
type RuntimeConfig struct {
	Limits rlimit.Set
}

// ProgramConfig names the user's submitted program and where its stdout
// should be captured.
type ProgramConfig struct {
	Executor       *langspec.Executor
	OutputFilePath string
}

// CheckerConfig names the checker/interactor program, if any. Executor is
// nil when a package has no loadable checker (see the ICPC package agent's
// handling of output_validators/).
type CheckerConfig struct {
	Executor       *langspec.Executor
	OutputFilePath string
}

// TestdataConfig is one input/answer pair. InputFilePath and
// AnswerFilePath are read from the package's original data directory, not a
// scratch copy: the Builder still copies the *.in files into the per-run
// scratch directory, but nothing reads from that copy.
type TestdataConfig struct {
	InputFilePath  string
	AnswerFilePath string
}

// JudgeConfig is the full per-test-case configuration RunJudge/RunInteract
// consume: Runtime and Program/Checker are shared across a submission's test
// cases and should be cloned by value per case alongside a fresh
// TestData, matching how the upstream judge loop iterates testdata.
type JudgeConfig struct {
	TestData TestdataConfig
	Runtime  RuntimeConfig
	Program  ProgramConfig
	Checker  CheckerConfig
}
