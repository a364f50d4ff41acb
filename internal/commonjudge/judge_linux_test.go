//go:build linux

package commonjudge

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/oj-lab/judger/internal/judgecfg"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/rlimit"
	"github.com/oj-lab/judger/internal/verdict"
)

func buildSandboxHelper(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve caller for module root")
	}
	moduleRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	helperPath := filepath.Join(t.TempDir(), "sandbox-helper")
	cmd := exec.Command("go", "build", "-o", helperPath, "./cmd/sandbox-helper")
	cmd.Dir = moduleRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Skipf("sandbox-helper requires libseccomp's cgo toolchain, unavailable here: %v: %s", err, out)
	}
	return helperPath
}

func TestRunJudgeFallsBackToDiffWithoutChecker(t *testing.T) {
	helperPath := buildSandboxHelper(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "01.in")
	answer := filepath.Join(dir, "01.ans")
	if err := os.WriteFile(input, []byte("ignored\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := os.WriteFile(answer, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	program := &langspec.Executor{Language: langspec.Cpp, Path: "/bin/echo", AdditionalArgs: []string{"hello"}}

	cfg := judgecfg.JudgeConfig{
		TestData: judgecfg.TestdataConfig{InputFilePath: input, AnswerFilePath: answer},
		Runtime:  judgecfg.RuntimeConfig{Limits: rlimit.ScriptSet()},
		Program:  judgecfg.ProgramConfig{Executor: program, OutputFilePath: filepath.Join(dir, "program.out")},
	}

	r := New(helperPath)
	result, err := r.RunJudge(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunJudge: %v", err)
	}
	if result.Verdict != verdict.Accepted {
		t.Errorf("Verdict = %v, want Accepted", result.Verdict)
	}
}

func TestRunJudgeReportsWrongAnswerWithoutChecker(t *testing.T) {
	helperPath := buildSandboxHelper(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "01.in")
	answer := filepath.Join(dir, "01.ans")
	if err := os.WriteFile(input, []byte("ignored\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := os.WriteFile(answer, []byte("expected\n"), 0o644); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	program := &langspec.Executor{Language: langspec.Cpp, Path: "/bin/echo", AdditionalArgs: []string{"actual"}}

	cfg := judgecfg.JudgeConfig{
		TestData: judgecfg.TestdataConfig{InputFilePath: input, AnswerFilePath: answer},
		Runtime:  judgecfg.RuntimeConfig{Limits: rlimit.ScriptSet()},
		Program:  judgecfg.ProgramConfig{Executor: program, OutputFilePath: filepath.Join(dir, "program.out")},
	}

	r := New(helperPath)
	result, err := r.RunJudge(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunJudge: %v", err)
	}
	if result.Verdict != verdict.WrongAnswer {
		t.Errorf("Verdict = %v, want WrongAnswer", result.Verdict)
	}
}

func TestRunJudgeClassifiesRuntimeError(t *testing.T) {
	helperPath := buildSandboxHelper(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "01.in")
	answer := filepath.Join(dir, "01.ans")
	if err := os.WriteFile(input, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := os.WriteFile(answer, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	program := &langspec.Executor{Language: langspec.Cpp, Path: "/bin/sh", AdditionalArgs: []string{"-c", "exit 3"}}

	cfg := judgecfg.JudgeConfig{
		TestData: judgecfg.TestdataConfig{InputFilePath: input, AnswerFilePath: answer},
		Runtime:  judgecfg.RuntimeConfig{Limits: rlimit.ScriptSet()},
		Program:  judgecfg.ProgramConfig{Executor: program, OutputFilePath: filepath.Join(dir, "program.out")},
	}

	r := New(helperPath)
	result, err := r.RunJudge(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunJudge: %v", err)
	}
	if result.Verdict != verdict.RuntimeError {
		t.Errorf("Verdict = %v, want RuntimeError", result.Verdict)
	}
}
