// Package commonjudge runs a non-interactive test case: the user program
// runs to completion against a redirected input file, then (if it ran
// cleanly) a checker compares its output against the expected answer.
// Grounded on the upstream run_user/run_checker/run_judge functions.
package commonjudge

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/rlimit"
	"github.com/oj-lab/judger/internal/sandbox"
	"github.com/oj-lab/judger/internal/verdict"
)

// Result is the outcome of one non-interactive test case.
type Result struct {
	Verdict  verdict.Verdict
	Time     sandbox.ExitInfo
	Checker  *sandbox.ExitInfo
}

// HelperPath is passed through to every Sandbox this package creates.
type Runner struct {
	HelperPath string
}

// New returns a Runner that launches sandbox-helper at helperPath.
func New(helperPath string) *Runner {
	return &Runner{HelperPath: helperPath}
}

// RunJudge executes cfg's program against cfg.TestData, then its checker
// against the program's output, and returns the combined verdict.
func (r *Runner) RunJudge(ctx context.Context, cfg judgecfg.JudgeConfig) (*Result, error) {
	userExit, err := r.runUser(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cpuLimit := cfg.Runtime.Limits.CPUSeconds.Soft
	userVerdict := verdict.ClassifyUser(userExit, cpuLimit)
	if userVerdict != verdict.Accepted {
		return &Result{Verdict: userVerdict, Time: *userExit}, nil
	}

	if cfg.Checker.Executor == nil {
		// No loadable checker: the ICPC package agent records this rather
		// than failing the build, so a plain diff stands in as the verdict.
		equal, err := filesEqual(cfg.Program.OutputFilePath, cfg.TestData.AnswerFilePath)
		if err != nil {
			return nil, err
		}
		if equal {
			return &Result{Verdict: verdict.Accepted, Time: *userExit}, nil
		}
		return &Result{Verdict: verdict.WrongAnswer, Time: *userExit}, nil
	}

	checkerExit, err := r.runChecker(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Verdict: verdict.ClassifyChecker(checkerExit.ExitStatus),
		Time:    *userExit,
		Checker: checkerExit,
	}, nil
}

func (r *Runner) runUser(ctx context.Context, cfg judgecfg.JudgeConfig) (*sandbox.ExitInfo, error) {
	in, err := os.Open(cfg.TestData.InputFilePath)
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "open testdata input")
	}
	defer in.Close()

	out, err := os.OpenFile(cfg.Program.OutputFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, judgeerr.Wrapf(err, judgeerr.SandboxSetupFailed, "open program output")
	}
	defer out.Close()

	sb := sandbox.New(r.HelperPath, cfg.Program.Executor, cfg.Runtime.Limits, true).
		WithStdin(cfg.TestData.InputFilePath, nil).
		WithStdout(cfg.Program.OutputFilePath, nil).
		WithStderrToStdout(true)
	if err := sb.Spawn(ctx); err != nil {
		return nil, err
	}
	return sb.Wait()
}

func (r *Runner) runChecker(ctx context.Context, cfg judgecfg.JudgeConfig) (*sandbox.ExitInfo, error) {
	cfg.Checker.Executor.SetAdditionalArgs([]string{
		cfg.TestData.InputFilePath,
		cfg.Program.OutputFilePath,
		cfg.TestData.AnswerFilePath,
		cfg.Checker.OutputFilePath,
	})

	sb := sandbox.New(r.HelperPath, cfg.Checker.Executor, rlimit.ScriptSet(), false).
		WithStdout(cfg.Checker.OutputFilePath, nil)
	if err := sb.Spawn(ctx); err != nil {
		return nil, err
	}
	return sb.Wait()
}

// filesEqual does the line-by-line comparison used when no checker is
// loaded: trailing whitespace (spaces, tabs, CR) is trimmed from each line
// before comparing, and a trailing empty line on either side is ignored, so
// a final newline (or its absence) never by itself causes WrongAnswer.
func filesEqual(a, b string) (bool, error) {
	af, err := os.Open(a)
	if err != nil {
		return false, judgeerr.Wrapf(err, judgeerr.RuntimeFailed, "read program output")
	}
	defer af.Close()

	bf, err := os.Open(b)
	if err != nil {
		return false, judgeerr.Wrapf(err, judgeerr.RuntimeFailed, "read answer file")
	}
	defer bf.Close()

	aLines, err := readTrimmedLines(af)
	if err != nil {
		return false, judgeerr.Wrapf(err, judgeerr.RuntimeFailed, "scan program output")
	}
	bLines, err := readTrimmedLines(bf)
	if err != nil {
		return false, judgeerr.Wrapf(err, judgeerr.RuntimeFailed, "scan answer file")
	}

	if len(aLines) != len(bLines) {
		return false, nil
	}
	for i := range aLines {
		if aLines[i] != bLines[i] {
			return false, nil
		}
	}
	return true, nil
}

func readTrimmedLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, trimTrailingWhitespace(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// A trailing empty line (from a final newline) is ignored on both sides.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

func trimTrailingWhitespace(b []byte) string {
	i := len(b)
	for i > 0 && (b[i-1] == '\n' || b[i-1] == '\r' || b[i-1] == ' ' || b[i-1] == '\t') {
		i--
	}
	return string(b[:i])
}
