package sandbox

import (
	"testing"

	"github.com/oj-lab/judger/internal/judgeerr"
	"github.com/oj-lab/judger/internal/langspec"
	"github.com/oj-lab/judger/internal/rlimit"
)

func TestWaitBeforeSpawnErrors(t *testing.T) {
	sb := New("sandbox-helper", &langspec.Executor{Language: langspec.Cpp, Path: "/bin/true"}, rlimit.ScriptSet(), false)
	if _, err := sb.Wait(); !judgeerr.Is(err, judgeerr.SandboxSetupFailed) {
		t.Fatalf("err = %v, want SandboxSetupFailed", err)
	}
}

func TestWithStdinAndStdoutSetRedirectFields(t *testing.T) {
	sb := New("sandbox-helper", &langspec.Executor{}, rlimit.ScriptSet(), false).
		WithStdin("in.txt", nil).
		WithStdout("out.txt", nil).
		WithStderrToStdout(true)

	if sb.stdin.Path != "in.txt" {
		t.Errorf("stdin.Path = %q, want %q", sb.stdin.Path, "in.txt")
	}
	if sb.stdout.Path != "out.txt" {
		t.Errorf("stdout.Path = %q, want %q", sb.stdout.Path, "out.txt")
	}
	if !sb.stderrToStdout {
		t.Error("stderrToStdout should be true after WithStderrToStdout(true)")
	}
}
