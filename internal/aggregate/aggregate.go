// Package aggregate implements the Per-Judge Result Aggregator: it
// iterates a BuiltJudge's testdata in declaration order, runs each through
// the Common Judge, and short-circuits on the first non-Accepted verdict.
package aggregate

import (
	"context"
	"time"

	"github.com/oj-lab/judger/internal/builder"
	"github.com/oj-lab/judger/internal/commonjudge"
	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/verdict"
)

// CaseResult is one test case's outcome: verdict, time, and memory usage.
type CaseResult struct {
	Verdict          verdict.Verdict
	TimeUsage        time.Duration
	MemoryUsageBytes int64
}

// SubmissionResult is the outcome of an entire submission: the overall
// verdict (the verdict of the first non-Accepted case, or Accepted if every case
// passed) plus one CaseResult per test case actually run.
type SubmissionResult struct {
	Verdict verdict.Verdict
	Cases   []CaseResult
}

// judgeRunner is the slice of *commonjudge.Runner the Aggregator depends on,
// narrowed to an interface so tests can drive RunOneSubmission with a fake
// rather than a real sandbox-helper binary.
type judgeRunner interface {
	RunJudge(ctx context.Context, cfg judgecfg.JudgeConfig) (*commonjudge.Result, error)
}

// Aggregator drives a commonjudge.Runner over a BuiltJudge's testdata.
type Aggregator struct {
	Runner judgeRunner
}

// New returns an Aggregator whose Common Judge launches the sandbox-helper
// binary at helperPath.
func New(helperPath string) *Aggregator {
	return &Aggregator{Runner: commonjudge.New(helperPath)}
}

// RunOneSubmission is the core's sole public entry point for a finished
// Build: run every test case in order, stopping at the first failure.
func (a *Aggregator) RunOneSubmission(ctx context.Context, bj *builder.BuiltJudge) (*SubmissionResult, error) {
	result := &SubmissionResult{Verdict: verdict.Accepted}

	for _, td := range bj.Testdata {
		cfg := judgecfg.JudgeConfig{
			TestData: td,
			Runtime:  bj.Runtime,
			Program: judgecfg.ProgramConfig{
				Executor:       bj.Program.Executor.Clone(),
				OutputFilePath: bj.Program.OutputFilePath,
			},
			Checker: judgecfg.CheckerConfig{
				Executor:       bj.Checker.Executor.Clone(),
				OutputFilePath: bj.Checker.OutputFilePath,
			},
		}

		caseRes, err := a.Runner.RunJudge(ctx, cfg)
		if err != nil {
			return nil, err
		}

		result.Cases = append(result.Cases, CaseResult{
			Verdict:          caseRes.Verdict,
			TimeUsage:        caseRes.Time.Usage.UserTime + caseRes.Time.Usage.SystemTime,
			MemoryUsageBytes: caseRes.Time.Usage.MaxRSSKB * 1024,
		})

		if caseRes.Verdict != verdict.Accepted {
			result.Verdict = caseRes.Verdict
			return result, nil
		}
	}

	return result, nil
}
